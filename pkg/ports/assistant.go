package ports

import (
	"context"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/tree"
)

// Assistant is what transport adapters need from the triage core.
// Implementations must be safe for concurrent use.
type Assistant interface {
	StartFromSymptoms(ctx context.Context, symptoms string) (domain.Step, error)
	Advance(ctx context.Context, currentNodeID, answer string) (domain.Step, error)
	Tree() *tree.Tree
}
