package core

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures so callers can map them to exit codes and
// HTTP statuses without string matching.
var (
	// TagSource marks fetch failures: auth, network, sheet not found.
	TagSource = goerr.NewTag("source")
	// TagSchema marks a whole-batch schema mismatch (wrong sheet), as
	// opposed to a few dirty rows.
	TagSchema = goerr.NewTag("schema")
	// TagRender marks chart rasterization failures.
	TagRender = goerr.NewTag("render")
	// TagSink marks upload failures.
	TagSink = goerr.NewTag("sink")
)

// ErrSchemaMismatch signals that no row in the batch carries the required
// columns. Individual dirty rows are RowError values instead.
var ErrSchemaMismatch = goerr.New("rows are missing required columns", goerr.T(TagSchema))
