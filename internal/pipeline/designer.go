package pipeline

import (
	"context"

	"ksites-core/design"
)

// Designer is the minimal capability the pipeline needs.
// *design.Designer and fakes in tests satisfy it.
type Designer interface {
	Design(ctx context.Context, gene, organism string, o design.Options) (design.Result, error)
}
