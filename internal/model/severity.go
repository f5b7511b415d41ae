package model

// Severity is the per-finding urgency tier. It is a closed enum; anything
// a probe reports outside this set is treated as Info.
type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// severityWeights are the fixed scoring weights. Read-only process-wide.
var severityWeights = map[Severity]int{
	SeverityInfo:     1,
	SeverityLow:      2,
	SeverityMedium:   5,
	SeverityHigh:     7,
	SeverityCritical: 10,
}

// Weight returns the scoring weight for s. Unknown severities weigh as Info.
func (s Severity) Weight() int {
	if w, ok := severityWeights[s]; ok {
		return w
	}
	return severityWeights[SeverityInfo]
}

// AtLeast reports whether s is as severe as other or worse.
func (s Severity) AtLeast(other Severity) bool {
	return s.Weight() >= other.Weight()
}

// ParseSeverity maps a raw string onto the enum, defaulting to Info.
func ParseSeverity(raw string) Severity {
	switch Severity(raw) {
	case SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(raw)
	}
	return SeverityInfo
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b.Weight() > a.Weight() {
		return b
	}
	return a
}
