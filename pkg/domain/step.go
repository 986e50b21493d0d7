package domain

// Step is the outcome of a traversal operation.
// Kind tells the caller whether NodeID is the next question or a final diagnosis.
type Step struct {
	Kind   NodeKind `json:"kind"`
	NodeID string   `json:"node_id"`
	Text   string   `json:"text"`
}

// Terminal reports whether the step reached a diagnosis.
func (s Step) Terminal() bool {
	return s.Kind == KindDiagnosis
}
