package domain

// Transition is a labeled edge of the decision tree.
type Transition struct {
	Answer   Answer `json:"answer"`
	ToNodeID string `json:"to_node_id"`
}
