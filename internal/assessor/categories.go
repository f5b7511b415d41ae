package assessor

import "github.com/scanforge/scanforge/internal/model"

// sectionCategory maps probe sections onto the four fixed service
// categories.
var sectionCategory = map[string]string{
	"system":            model.CategoryEndpointSecurity,
	"network":           model.CategoryNetworkDefense,
	"gateway":           model.CategoryNetworkDefense,
	"ssl_certificate":   model.CategoryDataProtection,
	"security_headers":  model.CategoryDataProtection,
	"cookies":           model.CategoryDataProtection,
	"email_security":    model.CategoryDataProtection,
	"cms":               model.CategoryAccessManagement,
	"frameworks":        model.CategoryAccessManagement,
	"sensitive_content": model.CategoryAccessManagement,
}

var categoryMeta = map[string]struct{ Name, Description string }{
	model.CategoryEndpointSecurity: {
		"Endpoint Security",
		"Protection for your computers, mobile devices, and other network endpoints",
	},
	model.CategoryNetworkDefense: {
		"Network Defense",
		"Protection for your network infrastructure and internet connectivity",
	},
	model.CategoryDataProtection: {
		"Data Protection",
		"Solutions to secure, backup, and manage your critical business data",
	},
	model.CategoryAccessManagement: {
		"Access Management",
		"Controls to ensure only authorized users access your systems",
	},
}

// Categorize buckets findings into the four fixed categories. The
// result always contains exactly those four keys; a category with no
// findings stays at zero with an empty findings list, because report
// templates index the map unconditionally.
func Categorize(findings []SectionFinding) map[string]*model.ServiceCategory {
	out := make(map[string]*model.ServiceCategory, len(model.ServiceCategoryKeys))
	for _, key := range model.ServiceCategoryKeys {
		meta := categoryMeta[key]
		out[key] = &model.ServiceCategory{
			Name:        meta.Name,
			Description: meta.Description,
			Findings:    []model.Finding{},
			RiskLevel:   "Low",
		}
	}

	for _, sf := range findings {
		key, ok := sectionCategory[sf.Section]
		if !ok {
			continue
		}
		// Informational findings are context, not risk.
		if sf.Finding.Severity == model.SeverityInfo {
			continue
		}
		cat := out[key]
		cat.Findings = append(cat.Findings, sf.Finding)
		cat.Score += sf.Finding.Severity.Weight()
		cat.MaxScore += 10
	}

	for _, cat := range out {
		cat.RiskLevel = categoryRiskLevel(cat.Score, cat.MaxScore)
	}
	return out
}

// categoryRiskLevel grades a category by how much of its possible risk
// budget remains unspent.
func categoryRiskLevel(score, maxScore int) string {
	if maxScore <= 0 {
		return "Low"
	}
	remaining := (maxScore - score) * 100 / maxScore
	switch {
	case remaining >= 90:
		return "Low"
	case remaining >= 70:
		return "Medium"
	case remaining >= 50:
		return "High"
	}
	return "Critical"
}
