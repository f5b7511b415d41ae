// Package industry classifies scan targets into industry categories and
// positions their scores against per-industry benchmark distributions.
package industry

import "strings"

// Industry keys. Classify only ever returns one of these.
const (
	Healthcare    = "healthcare"
	Financial     = "financial"
	Retail        = "retail"
	Education     = "education"
	Manufacturing = "manufacturing"
	Government    = "government"
	Default       = "default"
)

// checkOrder fixes the match priority. First match wins, no ranking.
var checkOrder = []string{Healthcare, Financial, Retail, Education, Manufacturing, Government}

var industryKeywords = map[string][]string{
	Healthcare: {"hospital", "health", "medical", "clinic", "care", "pharma",
		"doctor", "dental", "medicine", "healthcare"},
	Financial: {"bank", "finance", "investment", "capital", "financial",
		"insurance", "credit", "wealth", "asset", "accounting"},
	Retail: {"retail", "shop", "store", "market", "commerce", "mall",
		"sales", "buy", "shopping", "consumer"},
	Education: {"school", "university", "college", "academy", "education",
		"institute", "learning", "teach", "student", "faculty"},
	Manufacturing: {"manufacturing", "factory", "production", "industrial",
		"build", "maker", "assembly", "fabrication"},
	Government: {"government", "gov", "federal", "state", "municipal",
		"county", "agency", "authority", "administration"},
}

var industryDomains = map[string][]string{
	Healthcare:    {"hospital.org", "health.org", "med.org"},
	Financial:     {"bank.com", "invest.com", "financial.com"},
	Retail:        {"shop.com", "retail.com", "store.com", "market.com"},
	Education:     {"edu", "education.org", "university.edu", "school.org"},
	Manufacturing: {"mfg.com", "industrial.com", "production.com"},
}

// Classify maps a company name and email domain onto an industry key.
// The company name is searched for keywords in a fixed priority order;
// only when no keyword matches does the domain get consulted. Unmatched
// inputs classify as Default.
func Classify(companyName, emailDomain string) string {
	name := strings.ToLower(companyName)
	domain := strings.ToLower(emailDomain)

	for _, key := range checkOrder {
		for _, kw := range industryKeywords[key] {
			if strings.Contains(name, kw) {
				return key
			}
		}
	}

	if domain != "" {
		if strings.Contains(domain, ".edu") {
			return Education
		}
		if strings.Contains(domain, ".gov") {
			return Government
		}
		for _, key := range checkOrder {
			for _, d := range industryDomains[key] {
				if strings.Contains(domain, d) {
					return key
				}
			}
		}
	}

	return Default
}
