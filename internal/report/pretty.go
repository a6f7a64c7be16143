package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"baseline/internal/engine"
	"baseline/internal/rules"
)

var (
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
	dim     = lipgloss.Color("#6B7280")
	hint    = lipgloss.Color("#22D3EE")
)

// styles are bound to one renderer so color detection follows the output writer.
type styles struct {
	file, location, rule, dim, hint lipgloss.Style
	errorTag, warnTag               lipgloss.Style
	pass, fail, bold                lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		file:     r.NewStyle().Underline(true),
		location: r.NewStyle().Foreground(dim),
		rule:     r.NewStyle().Foreground(dim),
		dim:      r.NewStyle().Foreground(dim),
		hint:     r.NewStyle().Foreground(hint),
		errorTag: r.NewStyle().Foreground(danger).Bold(true),
		warnTag:  r.NewStyle().Foreground(warning).Bold(true),
		pass:     r.NewStyle().Foreground(success),
		fail:     r.NewStyle().Foreground(danger).Bold(true),
		bold:     r.NewStyle().Bold(true),
	}
}

// writePretty groups violations by file with source lines and suggestions,
// followed by a summary and the ratchet table.
func writePretty(out io.Writer, res *engine.Result) error {
	st := newStyles(out)
	var b strings.Builder
	s := summarize(res)

	if s.Total == 0 {
		fmt.Fprintf(&b, "%s %s\n", st.pass.Render("✓"), s.String())
		writeRatchetTable(&b, st, res.RatchetCounts)
		_, err := io.WriteString(out, b.String())
		return err
	}

	files, byFile := groupByFile(res.Violations)
	for _, file := range files {
		b.WriteString("\n" + st.file.Render(file) + "\n")
		for _, v := range byFile[file] {
			line, col := position(v)
			tag := st.warnTag.Render("warn ")
			if v.Severity == rules.SeverityError {
				tag = st.errorTag.Render("error")
			}
			fmt.Fprintf(&b, "  %s %s %s %s\n",
				st.location.Render(fmt.Sprintf("%-8s", fmt.Sprintf("%d:%d", line, col))),
				tag,
				st.rule.Render(fmt.Sprintf("%-25s", v.RuleID)),
				v.Message,
			)
			if src := strings.TrimSpace(v.SourceLine); src != "" {
				fmt.Fprintf(&b, "           %s %s\n", st.dim.Render("│"), src)
			}
			if v.Suggest != "" {
				fmt.Fprintf(&b, "           %s %s\n", st.dim.Render("└─"), st.hint.Render(v.Suggest))
			}
		}
	}

	b.WriteString("\n")
	var counts []string
	if s.Errors > 0 {
		counts = append(counts, st.errorTag.Render(plural(s.Errors, "error")))
	}
	if s.Warnings > 0 {
		counts = append(counts, st.warnTag.Render(plural(s.Warnings, "warning")))
	}
	fmt.Fprintf(&b, "%s %s\n", strings.Join(counts, ", "),
		st.bold.Render(fmt.Sprintf("(%d files scanned, %d rules loaded)", s.FilesScanned, s.RulesLoaded)))
	writeRatchetTable(&b, st, res.RatchetCounts)

	_, err := io.WriteString(out, b.String())
	return err
}

func writeRatchetTable(b *strings.Builder, st styles, counts map[string]engine.RatchetCount) {
	if len(counts) == 0 {
		return
	}
	b.WriteString("\n" + st.bold.Render("Ratchet rules:") + "\n")
	for _, id := range ratchetIDs(counts) {
		c := counts[id]
		status := st.pass.Render("✓ pass")
		if !c.Passed() {
			status = st.fail.Render("✗ OVER")
		}
		fmt.Fprintf(b, "  %-30s %s (%d/%d)\n", id, status, c.Found, c.Max)
	}
}
