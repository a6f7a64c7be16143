package report

import (
	"encoding/json"
	"fmt"
	"io"

	"baseline/internal/engine"
	"baseline/internal/rules"
)

type jsonRatchet struct {
	Found int  `json:"found"`
	Max   int  `json:"max"`
	Pass  bool `json:"pass"`
}

// JSONReport is the document written by the json format.
type JSONReport struct {
	RunID      string                 `json:"runId"`
	DurationMs int64                  `json:"durationMs"`
	Violations []rules.Violation      `json:"violations"`
	Summary    summary                `json:"summary"`
	Ratchet    map[string]jsonRatchet `json:"ratchet"`
}

func writeJSON(out io.Writer, res *engine.Result) error {
	doc := JSONReport{
		RunID:      res.RunID,
		DurationMs: res.Duration.Milliseconds(),
		Violations: res.Violations,
		Summary:    summarize(res),
		Ratchet:    make(map[string]jsonRatchet, len(res.RatchetCounts)),
	}
	if doc.Violations == nil {
		doc.Violations = []rules.Violation{}
	}
	for id, c := range res.RatchetCounts {
		doc.Ratchet[id] = jsonRatchet{Found: c.Found, Max: c.Max, Pass: c.Passed()}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
