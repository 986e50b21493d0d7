package graph

import (
	"context"

	"github.com/aretw0/triage/pkg/domain"
)

// Stepper advances a traversal by one answer.
type Stepper interface {
	Advance(ctx context.Context, currentNodeID, answer string) (domain.Step, error)
}

// Trace replays answers from root and records the nodes it passes through.
// The last node reached becomes the overlay's current node.
func Trace(ctx context.Context, s Stepper, root string, answers []string) (*GraphOverlay, error) {
	overlay := &GraphOverlay{CurrentNode: root}
	current := root
	for _, answer := range answers {
		step, err := s.Advance(ctx, current, answer)
		if err != nil {
			return nil, err
		}
		overlay.VisitedNodes = append(overlay.VisitedNodes, current)
		current = step.NodeID
		overlay.CurrentNode = current
		if step.Terminal() {
			break
		}
	}
	return overlay, nil
}
