// Package sink defines the chart-upload port and hosts its adapters.
package sink

import "context"

// Sink persists a rendered chart under a fixed object name. Each run
// overwrites the previous object.
type Sink interface {
	// Upload stores data under name. Failures carry core.TagSink.
	Upload(ctx context.Context, name string, data []byte) error
}
