package contracts

import (
	"context"

	"github.com/XavierBriggs/oddsboard/pkg/models"
)

// Sink receives every rendered board view.
// A failing sink must not affect board state or other sinks.
type Sink interface {
	// Name identifies the sink in the registry and in logs
	Name() string

	// Render draws or publishes the view
	Render(ctx context.Context, view models.BoardView) error
}
