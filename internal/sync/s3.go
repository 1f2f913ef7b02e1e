package sync

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// backupContentType marks the uploaded object as newline-delimited JSON.
const backupContentType = "application/x-ndjson"

// S3Destination uploads the communications backup to an object in an
// S3-compatible bucket. Every upload overwrites the same key, so the bucket
// always holds the latest full export; point-in-time history is the bucket's
// own versioning concern.
type S3Destination struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Destination builds a destination for the given bucket and object key.
// A non-empty endpoint switches the client to path-style addressing, which is
// what MinIO and most self-hosted S3 clones expect.
func NewS3Destination(ctx context.Context, bucket, key, region, endpoint string) (*S3Destination, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Destination{
		client: s3.NewFromConfig(cfg, s3opts...),
		bucket: bucket,
		key:    key,
	}, nil
}

// Write uploads the export, stamping the object with when it was taken and
// how many records it carries so a backup can be judged without downloading
// it.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	meta := map[string]string{
		"commtrack-exported-at": time.Now().UTC().Format(time.RFC3339),
		"commtrack-records":     strconv.Itoa(countRecords(data)),
	}
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(d.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(backupContentType),
		Metadata:    meta,
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}

// countRecords counts JSONL lines minus the leading header line.
func countRecords(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	if n > 0 {
		n--
	}
	return n
}
