// Package probes implements the individual checks a scan runs against a
// target: host lookups, port scans, DNS/email posture, TLS, HTTP headers
// and content fingerprinting. Every probe feeds its raw result through
// the Outcome wrapper so the rest of the pipeline only ever sees one
// shape.
package probes

import (
	"fmt"

	"github.com/scanforge/scanforge/internal/model"
)

// Outcome is the uniform result of running one probe: either a list of
// findings or a failure string. It is the single translation boundary
// between probe internals and the pipeline; nothing downstream inspects
// raw probe values.
type Outcome struct {
	Findings []model.Finding
	Err      string
}

// Failed reports whether the probe did not produce usable findings.
func (o Outcome) Failed() bool { return o.Err != "" }

// ErrorFinding returns the failure as a High-severity finding. Probe
// failures always surface as High.
func (o Outcome) ErrorFinding() model.Finding {
	return model.Finding{Message: o.Err, Severity: model.SeverityHigh}
}

// Capture runs fn and folds its result into an Outcome. A returned
// error or a panic becomes a Failed outcome; the probe can never abort
// the scan.
func Capture(fn func() ([]model.Finding, error)) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Sprintf("probe panic: %v", r)}
		}
	}()
	findings, err := fn()
	if err != nil {
		return Outcome{Err: err.Error()}
	}
	return Outcome{Findings: findings}
}

// Ok wraps findings in a successful outcome.
func Ok(findings ...model.Finding) Outcome {
	return Outcome{Findings: findings}
}

// Failedf builds a failed outcome.
func Failedf(format string, args ...any) Outcome {
	return Outcome{Err: fmt.Sprintf(format, args...)}
}
