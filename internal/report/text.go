package report

import (
	"fmt"
	"io"
	"strings"

	"baseline/internal/engine"
	"baseline/internal/rules"
)

// writeCompact writes one "file:line:col: severity[rule] message" line per violation.
func writeCompact(out, errOut io.Writer, res *engine.Result) error {
	for _, v := range res.Violations {
		line, col := position(v)
		if _, err := fmt.Fprintf(out, "%s:%d:%d: %s[%s] %s\n", v.File, line, col, v.Severity, v.RuleID, v.Message); err != nil {
			return err
		}
	}
	fmt.Fprintln(errOut, summarize(res))
	for _, id := range ratchetIDs(res.RatchetCounts) {
		c := res.RatchetCounts[id]
		status := "pass"
		if !c.Passed() {
			status = "OVER"
		}
		fmt.Fprintf(errOut, "ratchet: %s %s (%d/%d)\n", id, status, c.Found, c.Max)
	}
	return nil
}

// writeGitHub writes GitHub Actions workflow commands. Ratchet rules over
// budget are reported as extra error annotations.
func writeGitHub(out, errOut io.Writer, res *engine.Result) error {
	for _, v := range res.Violations {
		level := "warning"
		if v.Severity == rules.SeverityError {
			level = "error"
		}
		line, _ := position(v)
		props := fmt.Sprintf("file=%s,line=%d", escapeProperty(v.File), line)
		if v.Column > 0 {
			props += fmt.Sprintf(",col=%d", v.Column)
		}
		props += ",title=" + escapeProperty(v.RuleID)
		if _, err := fmt.Fprintf(out, "::%s %s::%s\n", level, props, escapeData(v.Message)); err != nil {
			return err
		}
	}
	for _, id := range ratchetIDs(res.RatchetCounts) {
		c := res.RatchetCounts[id]
		if c.Passed() {
			continue
		}
		fmt.Fprintf(out, "::error title=ratchet-%s::Ratchet rule '%s' exceeded budget: %d found, max %d\n",
			escapeProperty(id), escapeData(id), c.Found, c.Max)
	}
	fmt.Fprintln(errOut, summarize(res))
	return nil
}

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

func escapeData(s string) string     { return dataEscaper.Replace(s) }
func escapeProperty(s string) string { return propertyEscaper.Replace(s) }

// writeMarkdown renders a summary and a table per file, suitable for PR comments.
func writeMarkdown(out io.Writer, res *engine.Result) error {
	var b strings.Builder
	s := summarize(res)

	b.WriteString("## Baseline\n\n")
	b.WriteString(s.String() + "\n")

	files, byFile := groupByFile(res.Violations)
	for _, file := range files {
		fmt.Fprintf(&b, "\n### `%s`\n\n", file)
		b.WriteString("| Line | Severity | Rule | Message |\n")
		b.WriteString("|---:|---|---|---|\n")
		for _, v := range byFile[file] {
			line, col := position(v)
			msg := markdownCell(v.Message)
			if v.Suggest != "" {
				msg += "<br>_" + markdownCell(v.Suggest) + "_"
			}
			fmt.Fprintf(&b, "| %d:%d | %s | `%s` | %s |\n", line, col, v.Severity, v.RuleID, msg)
		}
	}

	if len(res.RatchetCounts) > 0 {
		b.WriteString("\n### Ratchets\n\n")
		b.WriteString("| Rule | Found | Max | Status |\n")
		b.WriteString("|---|---:|---:|---|\n")
		for _, id := range ratchetIDs(res.RatchetCounts) {
			c := res.RatchetCounts[id]
			status := "pass"
			if !c.Passed() {
				status = "**over**"
			}
			fmt.Fprintf(&b, "| `%s` | %d | %d | %s |\n", id, c.Found, c.Max, status)
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func markdownCell(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}
