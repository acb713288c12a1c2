package guard

// Violation identifies one product failing a guard rule.
type Violation struct {
	Key       string `json:"key" yaml:"key"`
	BrandSlug string `json:"brand_slug" yaml:"brand_slug"`
	Detail    string `json:"detail" yaml:"detail"`
}

// RuleResult is the outcome of one rule: the exact violation count and
// a capped sample for the report.
type RuleResult struct {
	Guard            string      `json:"guard_name" yaml:"guard_name"`
	ViolationCount   int         `json:"violation_count" yaml:"violation_count"`
	SampleViolations []Violation `json:"sample_violations,omitempty" yaml:"sample_violations,omitempty"`
}

// Report is the machine-readable guard report consumed by the release
// gate. Promotion requires every rule to report zero violations.
type Report struct {
	Results []RuleResult `json:"results" yaml:"results"`
}

func (r *Report) add(guard string, violations []Violation, sampleLimit int) {
	sample := violations
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}
	r.Results = append(r.Results, RuleResult{
		Guard:            guard,
		ViolationCount:   len(violations),
		SampleViolations: sample,
	})
}

// Clean reports whether every rule passed.
func (r *Report) Clean() bool {
	for _, res := range r.Results {
		if res.ViolationCount > 0 {
			return false
		}
	}
	return true
}

// Total returns the violation count across all rules.
func (r *Report) Total() int {
	total := 0
	for _, res := range r.Results {
		total += res.ViolationCount
	}
	return total
}

// Result returns the outcome for a named rule, if present.
func (r *Report) Result(guard string) (RuleResult, bool) {
	for _, res := range r.Results {
		if res.Guard == guard {
			return res, true
		}
	}
	return RuleResult{}, false
}
