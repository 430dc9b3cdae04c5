package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/cvpress/fonts"
)

// 资源清单示例：
//
//	icons {
//	  dir: "images"            // 目录下的 *.png 全部载入
//	  json: "icons.json"       // WriteJSON 生成的图标包
//	  github: "brand/gh.png"   // 单独覆盖
//	  phone: builtin           // 使用内置徽章
//	}
//	fonts {
//	  regular: "fonts/Inter-Regular.ttf"
//	  bold: builtin
//	}
var (
	manifestLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Comment", Pattern: `(?:#|//)[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[{}:;]`},
	})

	manifestParser = participle.MustBuild[Manifest](
		participle.Lexer(manifestLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

const builtinValue = "builtin"

// Manifest 是资源清单的 AST 根节点。
type Manifest struct {
	Blocks []*ManifestBlock `parser:"Newline* ( @@ Newline* )*"`
}

// ManifestBlock 对应 icons { ... } 或 fonts { ... }。
type ManifestBlock struct {
	Pos     lexer.Position   `parser:"" json:"-"`
	Name    string           `parser:"@Ident"`
	Entries []*ManifestEntry `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// ManifestEntry 使用冒号语法 (key: value)。
type ManifestEntry struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *ManifestValue `parser:"@@"`
}

// ManifestValue 是带引号的路径或裸标识符（目前只有 builtin）。
type ManifestValue struct {
	String *StringLiteral `parser:"  @String"`
	Ident  *string        `parser:"| @Ident"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// IsBuiltin 报告取值是否为 builtin。
func (v *ManifestValue) IsBuiltin() bool {
	return v != nil && v.Ident != nil && *v.Ident == builtinValue
}

// ParseManifest parses manifest content from an io.Reader.
func ParseManifest(r io.Reader) (*Manifest, error) {
	return manifestParser.Parse("", r)
}

// ParseManifestString parses manifest content from a string.
func ParseManifestString(input string) (*Manifest, error) {
	return manifestParser.ParseString("", input)
}

// Bundle 是渲染所需的全部只读资源。
type Bundle struct {
	Icons IconTable
	Fonts fonts.Set
}

// Default 返回内置徽章图标与 Go 字体。
func Default() (Bundle, error) {
	icons, err := DefaultIcons()
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{Icons: icons, Fonts: fonts.Default()}, nil
}

// LoadManifest 解析清单文件，相对路径以清单所在目录为基准。
func LoadManifest(path string) (Bundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("无法打开资源清单 %s: %w", path, err)
	}
	defer file.Close()

	m, err := ParseManifest(file)
	if err != nil {
		return Bundle{}, fmt.Errorf("解析资源清单失败: %w", err)
	}
	return m.Resolve(filepath.Dir(path))
}

// Resolve 载入清单引用的文件。未在清单中声明的字体使用内置字体；
// 未声明的图标保持缺失，渲染时按 ErrResourceMissing 处理。
func (m *Manifest) Resolve(baseDir string) (Bundle, error) {
	bundle := Bundle{Icons: IconTable{}, Fonts: fonts.Default()}
	for _, block := range m.Blocks {
		switch block.Name {
		case "icons":
			if err := resolveIcons(block, baseDir, bundle.Icons); err != nil {
				return Bundle{}, err
			}
		case "fonts":
			if err := resolveFonts(block, baseDir, &bundle.Fonts); err != nil {
				return Bundle{}, err
			}
		default:
			return Bundle{}, fmt.Errorf("%s: 未知的资源段落 %q", block.Pos, block.Name)
		}
	}
	return bundle, nil
}

func resolveIcons(block *ManifestBlock, baseDir string, table IconTable) error {
	var defaults IconTable
	for _, entry := range block.Entries {
		switch {
		case entry.Key == "dir":
			if entry.Value.String == nil {
				return fmt.Errorf("%s: icons.dir 需要字符串路径", entry.Pos)
			}
			loaded, err := LoadDir(resolvePath(baseDir, string(*entry.Value.String)))
			if err != nil {
				return err
			}
			for k, v := range loaded {
				table[k] = v
			}
		case entry.Key == "json":
			if entry.Value.String == nil {
				return fmt.Errorf("%s: icons.json 需要字符串路径", entry.Pos)
			}
			path := resolvePath(baseDir, string(*entry.Value.String))
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("读取图标包 %s 失败: %w", path, err)
			}
			loaded, err := ReadJSON(data)
			if err != nil {
				return err
			}
			for k, v := range loaded {
				table[k] = v
			}
		case entry.Value.IsBuiltin():
			if defaults == nil {
				var err error
				if defaults, err = DefaultIcons(); err != nil {
					return err
				}
			}
			data, ok := defaults[Icon(entry.Key)]
			if !ok {
				return fmt.Errorf("%s: 没有名为 %q 的内置图标", entry.Pos, entry.Key)
			}
			table[Icon(entry.Key)] = data
		case entry.Value.String != nil:
			path := resolvePath(baseDir, string(*entry.Value.String))
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("读取图标 %s 失败: %w", path, err)
			}
			table[Icon(entry.Key)] = data
		default:
			return fmt.Errorf("%s: 图标 %s 的取值无效", entry.Pos, entry.Key)
		}
	}
	return nil
}

func resolveFonts(block *ManifestBlock, baseDir string, set *fonts.Set) error {
	for _, entry := range block.Entries {
		var (
			data []byte
			err  error
		)
		switch {
		case entry.Value.IsBuiltin():
			data, err = fonts.Default().Bytes(entry.Key)
		case entry.Value.String != nil && strings.HasPrefix(string(*entry.Value.String), "builtin:"):
			data, err = fonts.Load(string(*entry.Value.String))
		case entry.Value.String != nil:
			data, err = os.ReadFile(resolvePath(baseDir, string(*entry.Value.String)))
		default:
			err = fmt.Errorf("取值无效")
		}
		if err != nil {
			return fmt.Errorf("%s: 字体 %s: %w", entry.Pos, entry.Key, err)
		}
		if err := set.Set(entry.Key, data); err != nil {
			return fmt.Errorf("%s: %w", entry.Pos, err)
		}
	}
	return nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
