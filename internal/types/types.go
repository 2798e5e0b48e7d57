// Package types holds the contracts shared across pipeline components.
package types

import (
	"context"

	"github.com/xhad/leaksift/internal/models"
)

// Completer sends one system prompt plus one user turn to the completion
// capability and returns the raw response.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, input string) (string, error)
}

// RecordStore is the persistence contract the batch passes write through.
type RecordStore interface {
	UpsertRecord(ctx context.Context, rec models.NormalizedRecord) error
	UpsertCleaned(ctx context.Context, rec models.NormalizedRecord) error
	UpsertVictim(ctx context.Context, rec models.VictimRecord) error
	HasFile(ctx context.Context, table, file string) (bool, error)
	Close()
}

// Reader loads one scraped document from disk.
type Reader interface {
	Load(path string) (models.RawDocument, error)
}
