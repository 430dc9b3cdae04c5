// Package resume 定义简历数据模型。所有值均为调用方提供的只读快照。
package resume

// Record 是一次渲染的完整输入。字段名与持久化文档保持一致。
type Record struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`

	Skills     []Skill      `json:"skills"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
	Honors     []Honor      `json:"honorsAndAwards"`
	Projects   []Project    `json:"personalProjects"`

	// 以下自由文本目前不参与排版，但属于输入契约。
	HonorsText string `json:"honors"`
	Coursework string `json:"coursework"`
	Hobbies    string `json:"hobbies"`
}

// Skill 的 Technologies 为逗号分隔的字符串，由排版阶段负责拆分。
type Skill struct {
	Name         string `json:"name"`
	Technologies string `json:"technologies"`
}

type Education struct {
	Institution   string `json:"institution"`
	Degree        string `json:"degree"`
	YearCompleted string `json:"yearCompleted"`
	CGPA          string `json:"cgpa"`
}

// Experience 的 SoftwareName 是项目/软件名称标签，为空时不输出该行。
type Experience struct {
	CompanyName  string   `json:"companyName"`
	Technologies string   `json:"technologies"`
	Position     string   `json:"position"`
	Duration     string   `json:"duration"`
	City         string   `json:"city"`
	SoftwareName string   `json:"softwareName"`
	Duties       []string `json:"duties"`
}

type Honor struct {
	Name     string `json:"name"`
	Detail   string `json:"detail"`
	Year     string `json:"year"`
	Location string `json:"location"`
}

type Project struct {
	ProjectName string `json:"projectName"`
	Description string `json:"description"`
}

// Normalize 把 nil 序列替换为空切片，保证序列字段永远不是 undefined。
func (r Record) Normalize() Record {
	if r.Skills == nil {
		r.Skills = []Skill{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	} else {
		exp := make([]Experience, len(r.Experience))
		copy(exp, r.Experience)
		for i := range exp {
			if exp[i].Duties == nil {
				exp[i].Duties = []string{}
			}
		}
		r.Experience = exp
	}
	if r.Honors == nil {
		r.Honors = []Honor{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	return r
}

// Clone 返回深拷贝，修改副本的任何序列都不会影响 r。
func (r Record) Clone() Record {
	r.Skills = append([]Skill(nil), r.Skills...)
	r.Education = append([]Education(nil), r.Education...)
	r.Honors = append([]Honor(nil), r.Honors...)
	r.Projects = append([]Project(nil), r.Projects...)
	if r.Experience != nil {
		exp := make([]Experience, len(r.Experience))
		for i, e := range r.Experience {
			e.Duties = append([]string(nil), e.Duties...)
			exp[i] = e
		}
		r.Experience = exp
	}
	return r.Normalize()
}
