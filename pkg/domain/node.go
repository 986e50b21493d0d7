package domain

// NodeKind tags every identifier of the tree as exactly one variant.
type NodeKind string

const (
	// KindQuestion displays a question and waits for a yes/no answer.
	KindQuestion NodeKind = "question"
	// KindDiagnosis is a terminal leaf with a recommendation.
	KindDiagnosis NodeKind = "diagnosis"
)

// Question is a non-terminal node of the decision tree.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Yes  string `json:"yes"`
	No   string `json:"no"`
}

// Next returns the target of the transition labeled by answer.
// The answer must already be validated.
func (q Question) Next(a Answer) string {
	if a == AnswerYes {
		return q.Yes
	}
	return q.No
}

// Diagnosis is a terminal leaf of the decision tree.
type Diagnosis struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// EntryPoint binds a closed-vocabulary classifier label to the question
// that is the best starting point for it.
type EntryPoint struct {
	Label  string `json:"label"`
	NodeID string `json:"node_id"`
}

// Node is the flattened, read-only view of a tree element used for
// introspection (graph export, HTTP and MCP listings).
type Node struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
	Text string   `json:"text"`

	// Transitions is empty for diagnoses.
	Transitions []Transition `json:"transitions,omitempty"`
}

// Definition is the raw, unvalidated description of a decision tree.
// It becomes usable only after tree.New has checked every structural invariant.
type Definition struct {
	Root      string       `json:"root"`
	Questions []Question   `json:"questions"`
	Diagnoses []Diagnosis  `json:"diagnoses"`
	Entries   []EntryPoint `json:"entries"`
}
