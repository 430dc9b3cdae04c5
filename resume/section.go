package resume

// Entry 是五类条目的和类型。未导出的方法使其在包外封闭。
type Entry interface {
	entry()
}

func (Skill) entry()      {}
func (Education) entry()  {}
func (Experience) entry() {}
func (Honor) entry()      {}
func (Project) entry()    {}

// SectionKind 标识一个区块。
type SectionKind string

const (
	SectionSkills     SectionKind = "skills"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionHonors     SectionKind = "honors"
	SectionProjects   SectionKind = "projects"
)

// Section 是带标题的一组条目，条目顺序即输入顺序。
type Section struct {
	Kind    SectionKind
	Entries []Entry
}

// Sections 按固定顺序返回全部五个区块（可能为空）。
func (r Record) Sections() []Section {
	return []Section{
		{Kind: SectionSkills, Entries: entries(r.Skills)},
		{Kind: SectionExperience, Entries: entries(r.Experience)},
		{Kind: SectionEducation, Entries: entries(r.Education)},
		{Kind: SectionHonors, Entries: entries(r.Honors)},
		{Kind: SectionProjects, Entries: entries(r.Projects)},
	}
}

func entries[T Entry](items []T) []Entry {
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out
}
