package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baseline/internal/errors"
)

func intPtr(n int) *int { return &n }

func check(t *testing.T, typ string, cfg Config, path, content string) []Violation {
	t.Helper()
	r, err := Build(typ, cfg)
	require.NoError(t, err)
	return r.CheckFile(NewScanContext(path, content))
}

func positions(vs []Violation) [][2]int {
	out := make([][2]int, len(vs))
	for i, v := range vs {
		out[i] = [2]int{v.Line, v.Column}
	}
	return out
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"\n", []string{""}},
	}
	for _, tt := range tests {
		got, _ := splitLines(tt.in)
		assert.Equal(t, tt.want, got, "splitLines(%q)", tt.in)
	}
}

func TestScanContext_LineStart(t *testing.T) {
	ctx := NewScanContext("a.ts", "ab\r\ncd\nef")
	assert.Equal(t, 0, ctx.LineStart(0))
	assert.Equal(t, 4, ctx.LineStart(1))
	assert.Equal(t, 7, ctx.LineStart(2))
	assert.Equal(t, "", ctx.Line(5))
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityError, ParseSeverity("error"))
	assert.Equal(t, SeverityError, ParseSeverity(" ERROR "))
	assert.Equal(t, SeverityWarning, ParseSeverity("warning"))
	assert.Equal(t, SeverityWarning, ParseSeverity("bogus"))
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		cfg  Config
		code errors.ErrorCode
	}{
		{"unknown type", "nope", Config{ID: "x"}, errors.UnknownRuleType},
		{"banned pattern without pattern", TypeBannedPattern, Config{ID: "x"}, errors.MissingField},
		{"ratchet without max_count", TypeRatchet, Config{ID: "x", Pattern: "a"}, errors.MissingField},
		{"bad regex", TypeBannedPattern, Config{ID: "x", Pattern: "(", Regex: true}, errors.InvalidRegex},
		{"import without packages", TypeBannedImport, Config{ID: "x"}, errors.MissingField},
		{"dependency without packages", TypeBannedDependency, Config{ID: "x"}, errors.MissingField},
		{"window without condition", TypeWindowPattern, Config{ID: "x", Pattern: "a"}, errors.MissingField},
		{"presence without files", TypeFilePresence, Config{ID: "x"}, errors.MissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Build(tt.typ, tt.cfg)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestTypes(t *testing.T) {
	types := Types()
	assert.Contains(t, types, TypeBannedPattern)
	assert.Contains(t, types, TypeNoOutlineNone)
	assert.IsIncreasing(t, types)
	assert.True(t, IsTreeRule(TypeMaxComponentSize))
	assert.False(t, IsTreeRule(TypeBannedImport))
}

func TestBannedPattern_Literal(t *testing.T) {
	vs := check(t, TypeBannedPattern, Config{ID: "no-console", Pattern: "console.log", Message: "no logs"},
		"a.ts", "console.log(1); console.log(2)\nok\n  console.log(3)\n")
	assert.Equal(t, [][2]int{{1, 1}, {1, 17}, {3, 3}}, positions(vs))
	assert.Equal(t, "no logs", vs[0].Message)
	assert.Equal(t, "  console.log(3)", vs[2].SourceLine)
	assert.Equal(t, SeverityWarning, vs[0].Severity)
}

func TestBannedPattern_NonOverlapping(t *testing.T) {
	vs := check(t, TypeBannedPattern, Config{ID: "x", Pattern: "aa"}, "a.ts", "aaaa")
	assert.Equal(t, [][2]int{{1, 1}, {1, 3}}, positions(vs))
}

func TestBannedPattern_Regex(t *testing.T) {
	vs := check(t, TypeBannedPattern, Config{ID: "x", Pattern: `any\b`, Regex: true, Severity: SeverityError},
		"a.ts", "let a: any = 1; let b: anything")
	require.Len(t, vs, 1)
	assert.Equal(t, 8, vs[0].Column)
	assert.Equal(t, SeverityError, vs[0].Severity)
}

func TestRatchet(t *testing.T) {
	r, err := Build(TypeRatchet, Config{ID: "legacy", Pattern: "legacyApi(", MaxCount: intPtr(2)})
	require.NoError(t, err)
	rr, ok := r.(*RatchetRule)
	require.True(t, ok)
	assert.Equal(t, 2, rr.MaxCount())
	assert.Equal(t, "legacyApi(", rr.Pattern())
	assert.Len(t, r.CheckFile(NewScanContext("a.ts", "legacyApi(1)\nlegacyApi(2)\nlegacyApi(3)")), 3)
}

func TestBannedImport(t *testing.T) {
	content := `import moment from 'moment';
import "moment/locale/fr";
import momentum from 'momentum';
const x = require("lodash");
export { debounce } from 'lodash/debounce';
`
	vs := check(t, TypeBannedImport, Config{ID: "imports", Packages: []string{"moment", "lodash"}, Message: "banned"},
		"a.ts", content)
	require.Len(t, vs, 4)
	assert.Equal(t, []int{1, 2, 4, 5}, []int{vs[0].Line, vs[1].Line, vs[2].Line, vs[3].Line})
	assert.Equal(t, "banned: 'moment'", vs[0].Message)
	assert.Equal(t, "banned: 'lodash'", vs[3].Message)
	assert.Equal(t, 11, vs[2].Column)
}

func TestBannedImport_DefaultGlob(t *testing.T) {
	r, err := Build(TypeBannedImport, Config{ID: "x", Packages: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, defaultSourceGlob, r.FileGlob())

	r, err = Build(TypeBannedImport, Config{ID: "x", Packages: []string{"a"}, Glob: "src/**"})
	require.NoError(t, err)
	assert.Equal(t, "src/**", r.FileGlob())
}

func TestBannedDependency(t *testing.T) {
	manifest := `{
  "name": "app",
  "dependencies": {
    "react": "^18.0.0",
    "moment": "^2.29.0"
  },
  "devDependencies": {
    "left-pad": "1.0.0"
  }
}
`
	cfg := Config{ID: "deps", Packages: []string{"moment", "left-pad"}, Message: "banned dependency"}
	vs := check(t, TypeBannedDependency, cfg, "web/package.json", manifest)
	require.Len(t, vs, 2)
	assert.Equal(t, "banned dependency: 'moment' in dependencies", vs[0].Message)
	assert.Equal(t, 5, vs[0].Line)
	assert.Equal(t, "banned dependency: 'left-pad' in devDependencies", vs[1].Message)
	assert.Equal(t, 8, vs[1].Line)

	assert.Empty(t, check(t, TypeBannedDependency, cfg, "web/other.json", manifest))
	assert.Empty(t, check(t, TypeBannedDependency, cfg, "package.json", "{ not json"))
}

func TestRequiredPattern(t *testing.T) {
	cfg := Config{ID: "use-client", Pattern: "'use client'", ConditionPattern: "useState", Message: "missing directive"}
	vs := check(t, TypeRequiredPattern, cfg, "a.tsx", "import x\nconst [a] = useState(0)\n")
	require.Len(t, vs, 1)
	assert.Equal(t, [2]int{1, 1}, [2]int{vs[0].Line, vs[0].Column})
	assert.Equal(t, "import x", vs[0].SourceLine)

	assert.Empty(t, check(t, TypeRequiredPattern, cfg, "a.tsx", "'use client'\nuseState(0)"))
	assert.Empty(t, check(t, TypeRequiredPattern, cfg, "a.tsx", "no hooks here"))
}

func TestRequiredPattern_RegexCondition(t *testing.T) {
	cfg := Config{ID: "x", Pattern: `^// owner:`, ConditionPattern: `export\s+default`, Regex: true}
	assert.Len(t, check(t, TypeRequiredPattern, cfg, "a.ts", "export   default 1"), 1)
	assert.Empty(t, check(t, TypeRequiredPattern, cfg, "a.ts", "// owner: web\nexport default 1"))
}

func TestWindowPattern(t *testing.T) {
	cfg := Config{ID: "await-try", Pattern: "await ", ConditionPattern: "try", MaxCount: intPtr(1)}
	content := "try {\n  await a()\n}\n\n\nawait b()\n"
	vs := check(t, TypeWindowPattern, cfg, "a.ts", content)
	require.Len(t, vs, 1)
	assert.Equal(t, 6, vs[0].Line)
	assert.Equal(t, 1, vs[0].Column)
}

func TestWindowPattern_TriggerLineDoesNotCount(t *testing.T) {
	cfg := Config{ID: "x", Pattern: "open(", ConditionPattern: "close(", MaxCount: intPtr(3)}
	assert.Len(t, check(t, TypeWindowPattern, cfg, "a.ts", "open(); close()"), 1)
	assert.Empty(t, check(t, TypeWindowPattern, cfg, "a.ts", "open()\nclose()"))
}

func TestFilePresence(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("x"), 0o644))

	r, err := NewFilePresence(Config{
		ID:             "files",
		RequiredFiles:  []string{"README.md", "LICENSE"},
		ForbiddenFiles: []string{".env", ".env.local"},
	})
	require.NoError(t, err)
	assert.Equal(t, "", r.FileGlob())
	assert.Nil(t, r.CheckFile(NewScanContext("a.ts", "")))

	vs := r.CheckPaths([]string{root})
	require.Len(t, vs, 2)
	assert.Equal(t, "LICENSE", vs[0].File)
	assert.Equal(t, "Required file 'LICENSE' is missing", vs[0].Message)
	assert.Equal(t, filepath.Join(root, ".env"), vs[1].File)
	assert.Equal(t, "Forbidden file '.env' is present", vs[1].Message)
	assert.Zero(t, vs[0].Line)
}

func TestFilePresence_FileRootAndMessage(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "main.ts")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	r, err := NewFilePresence(Config{ID: "files", RequiredFiles: []string{"main.ts", "tsconfig.json"}, Message: "need"})
	require.NoError(t, err)
	vs := r.CheckPaths([]string{file})
	require.Len(t, vs, 1)
	assert.Equal(t, "need: 'tsconfig.json'", vs[0].Message)
}
