package tree

import (
	"fmt"

	"github.com/aretw0/triage/internal/validator"
	"github.com/aretw0/triage/pkg/domain"
)

// Tree is a validated, read-only decision tree.
type Tree struct {
	root      string
	questions map[string]domain.Question
	diagnoses map[string]domain.Diagnosis
	entries   []domain.EntryPoint
	order     []string
}

// New validates def and builds a Tree from it.
func New(def domain.Definition) (*Tree, error) {
	if err := validator.ValidateDefinition(def); err != nil {
		return nil, err
	}

	t := &Tree{
		root:      def.Root,
		questions: make(map[string]domain.Question, len(def.Questions)),
		diagnoses: make(map[string]domain.Diagnosis, len(def.Diagnoses)),
		entries:   append([]domain.EntryPoint(nil), def.Entries...),
		order:     make([]string, 0, len(def.Questions)+len(def.Diagnoses)),
	}
	for _, q := range def.Questions {
		t.questions[q.ID] = q
		t.order = append(t.order, q.ID)
	}
	for _, d := range def.Diagnoses {
		t.diagnoses[d.ID] = d
		t.order = append(t.order, d.ID)
	}
	return t, nil
}

// Must is like New but panics on an invalid definition.
// It is meant for package-level trees whose definition is compiled in.
func Must(t *Tree, err error) *Tree {
	if err != nil {
		panic(err)
	}
	return t
}

// Root returns the entry node used when no better starting point is known.
func (t *Tree) Root() string {
	return t.root
}

// Kind classifies id. The boolean is false if id is not part of the tree.
func (t *Tree) Kind(id string) (domain.NodeKind, bool) {
	if _, ok := t.questions[id]; ok {
		return domain.KindQuestion, true
	}
	if _, ok := t.diagnoses[id]; ok {
		return domain.KindDiagnosis, true
	}
	return "", false
}

// Question returns the question stored under nodeID.
func (t *Tree) Question(nodeID string) (domain.Question, error) {
	q, ok := t.questions[nodeID]
	if !ok {
		return domain.Question{}, fmt.Errorf("%w: %q", domain.ErrUnknownNode, nodeID)
	}
	return q, nil
}

// DiagnosisText returns the recommendation stored under leafID.
func (t *Tree) DiagnosisText(leafID string) (string, error) {
	d, ok := t.diagnoses[leafID]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownLeaf, leafID)
	}
	return d.Text, nil
}

// Transition follows the edge labeled answer out of nodeID.
// The answer is checked before the node, so an invalid answer is always reported as such.
func (t *Tree) Transition(nodeID string, answer domain.Answer) (domain.Step, error) {
	if !answer.Valid() {
		return domain.Step{}, fmt.Errorf("%w: %q", domain.ErrInvalidAnswer, answer)
	}
	q, err := t.Question(nodeID)
	if err != nil {
		return domain.Step{}, err
	}
	return t.step(q.Next(answer)), nil
}

// Step describes id as a traversal outcome.
func (t *Tree) Step(id string) (domain.Step, error) {
	if _, ok := t.Kind(id); !ok {
		return domain.Step{}, fmt.Errorf("%w: %q", domain.ErrUnknownNode, id)
	}
	return t.step(id), nil
}

// step assumes id was validated at construction.
func (t *Tree) step(id string) domain.Step {
	if q, ok := t.questions[id]; ok {
		return domain.Step{Kind: domain.KindQuestion, NodeID: id, Text: q.Text}
	}
	d := t.diagnoses[id]
	return domain.Step{Kind: domain.KindDiagnosis, NodeID: id, Text: d.Text}
}

// EntryPoints returns a copy of the classifier label table.
func (t *Tree) EntryPoints() []domain.EntryPoint {
	return append([]domain.EntryPoint(nil), t.entries...)
}

// Nodes returns every element of the tree in definition order, questions first.
func (t *Tree) Nodes() []domain.Node {
	nodes := make([]domain.Node, 0, len(t.order))
	for _, id := range t.order {
		if q, ok := t.questions[id]; ok {
			nodes = append(nodes, domain.Node{
				ID:   id,
				Kind: domain.KindQuestion,
				Text: q.Text,
				Transitions: []domain.Transition{
					{Answer: domain.AnswerYes, ToNodeID: q.Yes},
					{Answer: domain.AnswerNo, ToNodeID: q.No},
				},
			})
			continue
		}
		nodes = append(nodes, domain.Node{ID: id, Kind: domain.KindDiagnosis, Text: t.diagnoses[id].Text})
	}
	return nodes
}

// Depth returns the number of hops on the longest path from the root to a diagnosis.
func (t *Tree) Depth() int {
	memo := make(map[string]int)
	var depth func(id string) int
	depth = func(id string) int {
		q, ok := t.questions[id]
		if !ok {
			return 0
		}
		if d, ok := memo[id]; ok {
			return d
		}
		d := 1 + max(depth(q.Yes), depth(q.No))
		memo[id] = d
		return d
	}
	return depth(t.root)
}
