package contracts

import (
	"context"

	"github.com/XavierBriggs/oddsboard/pkg/models"
)

// SnapshotSource defines where the board gets its odds from.
// Implementations return a complete snapshot or an error; they never retry.
type SnapshotSource interface {
	// FetchSnapshot retrieves the current odds for every league
	FetchSnapshot(ctx context.Context) (models.Snapshot, error)

	// Describe returns a short human-readable name for logs (e.g. the endpoint URL)
	Describe() string
}
