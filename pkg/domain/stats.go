package domain

// OutcomeStats is a snapshot of aggregate triage outcome counters.
// Keys are classification outcomes, entry node ids and diagnosis ids.
type OutcomeStats struct {
	Classifications map[string]int64 `json:"classifications"`
	EntryPoints     map[string]int64 `json:"entry_points"`
	Diagnoses       map[string]int64 `json:"diagnoses"`
}
