// Package source defines the record-source port and hosts its adapters.
package source

import (
	"context"

	"hoursreport/internal/core"
)

// Source fetches the full set of raw volunteer-hour rows for one run.
type Source interface {
	// FetchAll returns every data row of the worksheet as header-keyed
	// records. Failures carry core.TagSource.
	FetchAll(ctx context.Context) ([]core.RawRecord, error)
}
