package industry

// Benchmark is the static reference data for one industry. The table is
// a process-wide read-only constant; lookups are pure and safe under
// concurrent scans.
type Benchmark struct {
	Name             string
	Compliance       []string
	CriticalControls []string
	AvgScore         float64

	// Distribution maps percentile bucket -> score threshold, keyed by
	// the fixed buckets 10, 25, 50, 75, 90.
	Distribution map[int]float64
}

// Buckets lists the distribution keys in ascending order.
var Buckets = []int{10, 25, 50, 75, 90}

var benchmarks = map[string]Benchmark{
	Healthcare: {
		Name:       "Healthcare",
		Compliance: []string{"HIPAA", "HITECH", "FDA", "NIST 800-66"},
		CriticalControls: []string{
			"PHI Data Encryption",
			"Network Segmentation",
			"Access Control",
			"Regular Risk Assessments",
			"Incident Response Plan",
		},
		AvgScore:     72,
		Distribution: map[int]float64{10: 45, 25: 58, 50: 72, 75: 84, 90: 92},
	},
	Financial: {
		Name:       "Financial Services",
		Compliance: []string{"PCI DSS", "SOX", "GLBA", "GDPR", "NIST 800-53"},
		CriticalControls: []string{
			"Multi-factor Authentication",
			"Encryption of Financial Data",
			"Fraud Detection",
			"Continuous Monitoring",
			"Disaster Recovery",
		},
		AvgScore:     78,
		Distribution: map[int]float64{10: 52, 25: 65, 50: 78, 75: 88, 90: 95},
	},
	Retail: {
		Name:       "Retail",
		Compliance: []string{"PCI DSS", "CCPA", "GDPR", "ISO 27001"},
		CriticalControls: []string{
			"Point-of-Sale Security",
			"Payment Data Protection",
			"Inventory System Security",
			"Ecommerce Platform Security",
			"Customer Data Protection",
		},
		AvgScore:     65,
		Distribution: map[int]float64{10: 38, 25: 52, 50: 65, 75: 79, 90: 88},
	},
	Education: {
		Name:       "Education",
		Compliance: []string{"FERPA", "COPPA", "State Privacy Laws", "NIST 800-171"},
		CriticalControls: []string{
			"Student Data Protection",
			"Campus Network Security",
			"Remote Learning Security",
			"Research Data Protection",
			"Identity Management",
		},
		AvgScore:     60,
		Distribution: map[int]float64{10: 32, 25: 45, 50: 60, 75: 76, 90: 85},
	},
	Manufacturing: {
		Name:       "Manufacturing",
		Compliance: []string{"ISO 27001", "NIST", "Industry-Specific Regulations"},
		CriticalControls: []string{
			"OT/IT Security",
			"Supply Chain Risk Management",
			"Intellectual Property Protection",
			"Industrial Control System Security",
			"Physical Security",
		},
		AvgScore:     68,
		Distribution: map[int]float64{10: 40, 25: 54, 50: 68, 75: 80, 90: 89},
	},
	Government: {
		Name:       "Government",
		Compliance: []string{"FISMA", "NIST 800-53", "FedRAMP", "CMMC"},
		CriticalControls: []string{
			"Data Classification",
			"Continuous Monitoring",
			"Authentication Controls",
			"Incident Response",
			"Security Clearance Management",
		},
		AvgScore:     70,
		Distribution: map[int]float64{10: 42, 25: 56, 50: 70, 75: 82, 90: 90},
	},
	Default: {
		Name:       "General Business",
		Compliance: []string{"General Data Protection", "Industry Best Practices", "ISO 27001"},
		CriticalControls: []string{
			"Data Protection",
			"Secure Authentication",
			"Network Security",
			"Endpoint Protection",
			"Security Awareness Training",
		},
		AvgScore:     65,
		Distribution: map[int]float64{10: 35, 25: 50, 50: 65, 75: 80, 90: 90},
	},
}

// Lookup returns the benchmark for key, falling back to the default
// table for unknown keys so callers never get a zero Benchmark.
func Lookup(key string) Benchmark {
	if b, ok := benchmarks[key]; ok {
		return b
	}
	return benchmarks[Default]
}

// Keys returns every industry key with a benchmark entry.
func Keys() []string {
	keys := make([]string, 0, len(benchmarks))
	for _, k := range checkOrder {
		keys = append(keys, k)
	}
	keys = append(keys, Default)
	return keys
}
