package industry

import "testing"

func TestClassifyKeywordBeatsDomain(t *testing.T) {
	// "hospital" in the company name wins before any domain check runs.
	if got := Classify("Springfield General Hospital", "sgh.org"); got != Healthcare {
		t.Errorf("got %q, want healthcare", got)
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// "care" (healthcare) appears before "bank" (financial) in the
	// priority order, so a name matching both classifies as healthcare.
	if got := Classify("CareBank Holdings", ""); got != Healthcare {
		t.Errorf("got %q, want healthcare", got)
	}
}

func TestClassifyDomainFallback(t *testing.T) {
	cases := []struct {
		company, domain, want string
	}{
		{"Acme Corp", "acme.edu", Education},
		{"Acme Corp", "city.gov", Government},
		{"Acme Corp", "mail.hospital.org", Healthcare},
		{"Acme Corp", "bank.com", Financial},
		{"Acme Corp", "nothing.example", Default},
		{"", "", Default},
	}
	for _, c := range cases {
		if got := Classify(c.company, c.domain); got != c.want {
			t.Errorf("Classify(%q, %q) = %q, want %q", c.company, c.domain, got, c.want)
		}
	}
}

func TestLookupUnknownFallsBackToDefault(t *testing.T) {
	b := Lookup("interpretive-dance")
	if b.Name != "General Business" {
		t.Errorf("got %q", b.Name)
	}
}

func TestPercentileExactAtBucketThresholds(t *testing.T) {
	// A score sitting exactly on a bucket threshold must report that
	// bucket with no interpolation drift, for every industry.
	for _, key := range Keys() {
		b := Lookup(key)
		for _, p := range Buckets {
			got := CalculatePercentile(b.Distribution[p], key)
			if got.Percentile != p {
				t.Errorf("%s: percentile(dist[%d]=%v) = %d, want %d",
					key, p, b.Distribution[p], got.Percentile, p)
			}
		}
	}
}

func TestPercentileAboveTopBucket(t *testing.T) {
	got := CalculatePercentile(100, Default)
	if got.Percentile != 90 {
		t.Errorf("score 100 should cap at 90, got %d", got.Percentile)
	}
}

func TestPercentileBelowBottomBucket(t *testing.T) {
	// Default dist[10] is 35; score 17.5 is halfway between the (0,0)
	// anchor and (35,10), so percentile 5.
	got := CalculatePercentile(17.5, Default)
	if got.Percentile != 5 {
		t.Errorf("got %d, want 5", got.Percentile)
	}
	if got.Comparison != "below" {
		t.Errorf("got comparison %q", got.Comparison)
	}
}

func TestPercentileInterpolatesBetweenBuckets(t *testing.T) {
	// Default: dist[50]=65, dist[75]=80. Score 72.5 is halfway, so
	// percentile round(50 + 0.5*25) = 63.
	got := CalculatePercentile(72.5, Default)
	if got.Percentile != 63 {
		t.Errorf("got %d, want 63", got.Percentile)
	}
}

func TestPercentileComparisonAndDifference(t *testing.T) {
	got := CalculatePercentile(80, Healthcare) // avg 72
	if got.Comparison != "above" || got.Difference != 8 || got.AvgScore != 72 {
		t.Errorf("got %+v", got)
	}
}
