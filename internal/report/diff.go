package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/scanforge/scanforge/internal/assessor"
	"github.com/scanforge/scanforge/internal/model"
)

// ScanDiff summarizes how a target's posture moved between two scans.
type ScanDiff struct {
	ScoreBefore      int      `json:"score_before"`
	ScoreAfter       int      `json:"score_after"`
	ScoreDelta       int      `json:"score_delta"`
	NewFindings      []string `json:"new_findings"`
	ResolvedFindings []string `json:"resolved_findings"`
	Unified          string   `json:"unified,omitempty"`
}

// Compare diffs two scans of the same target, oldest first.
func Compare(before, after *model.ScanResult) *ScanDiff {
	d := &ScanDiff{}
	if before != nil && before.RiskAssessment != nil {
		d.ScoreBefore = before.RiskAssessment.OverallScore
	}
	if after != nil && after.RiskAssessment != nil {
		d.ScoreAfter = after.RiskAssessment.OverallScore
	}
	d.ScoreDelta = d.ScoreAfter - d.ScoreBefore

	beforeLines := findingLines(before)
	afterLines := findingLines(after)

	beforeSet := toSet(beforeLines)
	afterSet := toSet(afterLines)
	for _, line := range afterLines {
		if !beforeSet[line] {
			d.NewFindings = append(d.NewFindings, line)
		}
	}
	for _, line := range beforeLines {
		if !afterSet[line] {
			d.ResolvedFindings = append(d.ResolvedFindings, line)
		}
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(strings.Join(beforeLines, "\n"), strings.Join(afterLines, "\n"))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	d.Unified = renderUnified(diffs)
	return d
}

func findingLines(r *model.ScanResult) []string {
	var lines []string
	for _, sf := range assessor.Flatten(r) {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", sf.Finding.Severity, sf.Section, sf.Finding.Message))
	}
	sort.Strings(lines)
	return lines
}

func toSet(lines []string) map[string]bool {
	set := make(map[string]bool, len(lines))
	for _, l := range lines {
		set[l] = true
	}
	return set
}

func renderUnified(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, diff := range diffs {
		prefix := "  "
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.Split(strings.TrimRight(diff.Text, "\n"), "\n") {
			if line == "" {
				continue
			}
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
