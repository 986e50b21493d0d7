package tree_test

import (
	"sync"
	"testing"

	"github.com/aretw0/triage/pkg/catalog"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstAid(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := catalog.FirstAid()
	require.NoError(t, err)
	return tr
}

func TestTree_NoDanglingTransitions(t *testing.T) {
	tr := firstAid(t)

	for _, n := range tr.Nodes() {
		if n.Kind != domain.KindQuestion {
			continue
		}
		for _, a := range domain.Answers {
			step, err := tr.Transition(n.ID, a)
			require.NoError(t, err, "%s/%s", n.ID, a)

			kind, ok := tr.Kind(step.NodeID)
			assert.True(t, ok, "%s/%s -> %s is not in the tree", n.ID, a, step.NodeID)
			assert.Equal(t, kind, step.Kind)
		}
	}
}

func TestTree_ReachableDiagnosesHaveText(t *testing.T) {
	tr := firstAid(t)

	seen := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if kind, _ := tr.Kind(id); kind == domain.KindDiagnosis {
			text, err := tr.DiagnosisText(id)
			require.NoError(t, err)
			assert.NotEmpty(t, text, id)
			return
		}
		for _, a := range domain.Answers {
			step, err := tr.Transition(id, a)
			require.NoError(t, err)
			walk(step.NodeID)
		}
	}
	walk(tr.Root())

	assert.Len(t, seen, len(tr.Nodes()), "every node is reachable from the root")
}

func TestTree_Transition_InvalidAnswer(t *testing.T) {
	tr := firstAid(t)

	for _, answer := range []domain.Answer{"", "maybe", "YES", "initial"} {
		_, err := tr.Transition(domain.RootID, answer)
		assert.ErrorIs(t, err, domain.ErrInvalidAnswer, "answer %q", answer)
	}

	// The answer is rejected even when the node is unknown too.
	_, err := tr.Transition("nope", "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)
}

func TestTree_Transition_UnknownNode(t *testing.T) {
	tr := firstAid(t)

	_, err := tr.Transition("nope", domain.AnswerYes)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	// Diagnoses have no outgoing transitions.
	_, err = tr.Transition("diag_stroke", domain.AnswerYes)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}

func TestTree_Lookups(t *testing.T) {
	tr := firstAid(t)

	q, err := tr.Question("q1_b")
	require.NoError(t, err)
	assert.Equal(t, "Do they have a pulse?", q.Text)

	_, err = tr.Question("diag_bleeding")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	text, err := tr.DiagnosisText("diag_heart_attack")
	require.NoError(t, err)
	assert.Contains(t, text, "Possible Heart Attack")

	_, err = tr.DiagnosisText("q3_a")
	assert.ErrorIs(t, err, domain.ErrUnknownLeaf)

	step, err := tr.Step("q4_a")
	require.NoError(t, err)
	assert.Equal(t, domain.KindQuestion, step.Kind)

	_, err = tr.Step("ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}

func TestTree_Paths(t *testing.T) {
	tr := firstAid(t)

	tests := []struct {
		name    string
		answers []domain.Answer
		want    string
	}{
		{"unconscious with pulse", []domain.Answer{domain.AnswerNo, domain.AnswerYes}, "diag_unconscious_breathing"},
		{"unconscious without pulse", []domain.Answer{domain.AnswerNo, domain.AnswerNo}, "diag_unconscious_no_pulse"},
		{"severe bleeding", []domain.Answer{domain.AnswerYes, domain.AnswerYes, domain.AnswerYes}, "diag_bleeding"},
		{"not breathing", []domain.Answer{domain.AnswerYes, domain.AnswerNo}, "diag_unconscious_not_breathing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := tr.Root()
			var step domain.Step
			for hop, a := range tt.answers {
				require.LessOrEqual(t, hop, 6)
				var err error
				step, err = tr.Transition(current, a)
				require.NoError(t, err)
				current = step.NodeID
			}
			assert.True(t, step.Terminal())
			assert.Equal(t, tt.want, step.NodeID)
			assert.NotEmpty(t, step.Text)
		})
	}
}

func TestTree_Depth(t *testing.T) {
	tr := firstAid(t)
	// start -> q1_a -> q2_a -> q3_a -> q4_a -> q5_a -> q6_a -> diagnosis
	assert.Equal(t, 7, tr.Depth())
}

func TestTree_EntryPointsAreCopies(t *testing.T) {
	tr := firstAid(t)
	entries := tr.EntryPoints()
	entries[0].NodeID = "tampered"
	assert.Equal(t, "q1_a", tr.EntryPoints()[0].NodeID)
}

func TestTree_ConcurrentReads(t *testing.T) {
	tr := firstAid(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := domain.Answers[i%2]
			_, err := tr.Transition(domain.RootID, a)
			assert.NoError(t, err)
			_ = tr.Nodes()
		}(i)
	}
	wg.Wait()
}

func TestNew_RejectsInvalidDefinition(t *testing.T) {
	_, err := tree.New(domain.Definition{
		Root:      "start",
		Questions: []domain.Question{{ID: "start", Text: "Q", Yes: "start_leaf", No: "missing"}},
		Diagnoses: []domain.Diagnosis{{ID: "start_leaf", Text: "D"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTree)

	assert.Panics(t, func() {
		tree.Must(tree.New(domain.Definition{Root: "start"}))
	})
}
