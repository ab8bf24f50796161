// Package s3 provides a blobstore.BlobStore backed by Amazon S3.
package s3

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/mdsearch/blobstore"
)

// Compile-time checks to ensure Store satisfies the blobstore interfaces.
var _ blobstore.BlobStore = (*Store)(nil)
var _ blobstore.Fetcher = (*Store)(nil)

// Client is the subset of the S3 API the store uses.
type Client interface {
	manager.DownloadAPIClient
	s3.HeadObjectAPIClient
}

// Options contains configuration options for the S3 store.
type Options struct {
	// Prefix is prepended to all keys (e.g. "datasets/").
	Prefix string

	// Concurrency is the number of parallel part downloads used by
	// Fetch.
	Concurrency int
}

// DefaultOptions contains the default configuration options for the S3
// store.
var DefaultOptions = Options{
	Concurrency: 5,
}

// Store implements blobstore.BlobStore for Amazon S3.
type Store struct {
	client     Client
	downloader *manager.Downloader
	bucket     string
	opts       Options
}

// New creates an S3 blob store using the default AWS configuration.
func New(ctx context.Context, bucket string, optFns ...func(o *Options)) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewFromClient(s3.NewFromConfig(cfg), bucket, optFns...), nil
}

// NewFromClient creates an S3 blob store using the given client.
func NewFromClient(client Client, bucket string, optFns ...func(o *Options)) *Store {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Store{
		client: client,
		downloader: manager.NewDownloader(client, func(d *manager.Downloader) {
			d.Concurrency = opts.Concurrency
		}),
		bucket: bucket,
		opts:   opts,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.opts.Prefix, name)
}

// Open opens a blob for streaming reads.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}
	return resp.Body, nil
}

// Fetch downloads the entire blob using parallel part downloads.
func (s *Store) Fetch(ctx context.Context, name string) ([]byte, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, aws.ToInt64(head.ContentLength)))
	_, err = s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
