package storage

import (
	"context"

	"appweld/internal/generator"
	"appweld/internal/model"
)

// RunRecord summarizes one generation, mutation, or verification run. Files
// is only set for generation runs so a later verify can find the artifacts.
type RunRecord struct {
	Mode      string // generate | integrate | verify
	AppRoot   string
	OutputDir string
	Total     int
	Failed    int
	Files     []generator.GeneratedFile
}

// Store persists scan results and run summaries between CLI invocations.
type Store interface {
	// SaveModel stores a freshly scanned AppModel for the given app root.
	SaveModel(ctx context.Context, appRoot string, m *model.AppModel) error

	// LatestModel returns the most recent AppModel saved for the app root.
	LatestModel(ctx context.Context, appRoot string) (*model.AppModel, error)

	// SaveRun appends one run summary.
	SaveRun(ctx context.Context, rec RunRecord) error

	// LatestGeneration returns the output dir and file list of the most
	// recent generation run for the app root.
	LatestGeneration(ctx context.Context, appRoot string) (RunRecord, error)

	Close() error
}
