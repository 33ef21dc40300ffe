// Package sources opens SWIFT code sheets from the local filesystem or from
// an S3 compatible object store.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// ErrInvalidLocation is returned for malformed s3:// locations.
var ErrInvalidLocation = errors.New("invalid source location")

// Config holds the S3 client settings. Credentials come from the default
// AWS chain.
type Config struct {
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"` // optional, e.g. MinIO
	PathStyle bool   `koanf:"path_style"`
}

// ObjectGetter is the part of the S3 client used to fetch objects
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source is an opened sheet. Name carries the file extension used to pick
// a row reader.
type Source struct {
	io.ReadCloser
	Name string
}

// Opener resolves source locations to readable sheets
type Opener struct {
	config Config

	mu     sync.Mutex
	client ObjectGetter
}

// NewOpener builds the S3 client from cfg on the first s3:// location.
func NewOpener(cfg Config) *Opener {
	return &Opener{config: cfg}
}

// NewOpenerWithClient uses client for s3:// locations.
func NewOpenerWithClient(client ObjectGetter) *Opener {
	return &Opener{client: client}
}

// Open opens location, which is either a filesystem path or s3://bucket/key.
func (o *Opener) Open(ctx context.Context, location string) (*Source, error) {
	if !strings.HasPrefix(location, s3Scheme) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", location, err)
		}
		return &Source{ReadCloser: f, Name: location}, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLocation, location)
	}

	client, err := o.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", location, err)
	}
	return &Source{ReadCloser: out.Body, Name: path.Base(key)}, nil
}

func (o *Opener) s3Client(ctx context.Context) (ObjectGetter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.client != nil {
		return o.client, nil
	}

	region := o.config.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	o.client = s3.NewFromConfig(awsCfg, func(opts *s3.Options) {
		opts.UsePathStyle = o.config.PathStyle
		if o.config.Endpoint != "" {
			opts.BaseEndpoint = aws.String(o.config.Endpoint)
		}
	})
	return o.client, nil
}
