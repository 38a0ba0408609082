// Package gcs uploads rendered charts to a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	goption "google.golang.org/api/option"

	"hoursreport/internal/core"
	ports "hoursreport/internal/sink"
)

type Client struct {
	bucket *storage.BucketHandle
}

var _ ports.Sink = (*Client)(nil)

// New creates a GCS sink for the named bucket. credentialsFile may be
// empty, in which case GOOGLE_APPLICATION_CREDENTIALS and then ambient ADC
// apply, matching the source adapter.
func New(ctx context.Context, bucketName, credentialsFile string) (*Client, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required", goerr.T(core.TagSink))
	}
	var opts []goption.ClientOption
	if credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if credentialsFile != "" {
		opts = append(opts, goption.WithCredentialsFile(credentialsFile))
	}
	cli, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "create storage client", goerr.T(core.TagSink))
	}
	return &Client{bucket: cli.Bucket(bucketName)}, nil
}

// Upload writes data to the named object with an image/png content type.
// The write is committed on Close, so a failed Close is a failed upload.
func (c *Client) Upload(ctx context.Context, name string, data []byte) error {
	w := c.bucket.Object(name).NewWriter(ctx)
	w.ContentType = "image/png"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "write object", goerr.V("object", name), goerr.T(core.TagSink))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "commit object", goerr.V("object", name), goerr.T(core.TagSink))
	}
	return nil
}
