// Package cuotasfile reads the merged odds document the collectors write to disk
// (data/cuotas.json), for running the board without the HTTP backend.
package cuotasfile

import (
	"context"
	"fmt"
	"os"

	"github.com/XavierBriggs/oddsboard/pkg/contracts"
	"github.com/XavierBriggs/oddsboard/pkg/models"
)

// Source implements SnapshotSource over a JSON file
type Source struct {
	path string
}

var _ contracts.SnapshotSource = (*Source)(nil)

// NewSource creates a file source
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Describe implements SnapshotSource
func (s *Source) Describe() string {
	return "file://" + s.path
}

// FetchSnapshot re-reads the file on every call
func (s *Source) FetchSnapshot(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	snap, err := models.ParseSnapshot(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	return snap, nil
}
