package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config locates the bucket and object that receive snapshot uploads.
// Endpoint is only needed for S3-compatible stores such as MinIO; when set,
// path-style addressing is enabled.
type S3Config struct {
	Bucket   string
	Key      string
	Region   string
	Endpoint string
}

// S3Destination uploads each snapshot as one JSONL object, overwriting the
// previous upload. The object key is fixed, so the bucket always holds the
// latest farm state under a predictable name.
type S3Destination struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Destination creates an S3 destination from the ambient AWS credential
// chain plus the given config.
func NewS3Destination(ctx context.Context, sc S3Config) (*S3Destination, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(sc.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if sc.Endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Destination{
		client: s3.NewFromConfig(cfg, s3opts...),
		cfg:    sc,
	}, nil
}

// Write uploads the snapshot, stamping the export time as object metadata so
// operators can tell at a glance how fresh the stored state is.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	contentType := "application/x-ndjson"
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.cfg.Bucket),
		Key:         aws.String(d.cfg.Key),
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
		Metadata: map[string]string{
			"farms-exported-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}
