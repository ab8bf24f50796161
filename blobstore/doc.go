// Package blobstore provides storage abstraction for mdsearch dataset
// files.
//
// BlobStore is the interface for reading data blobs. Implementations must
// be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem
//   - s3.Store: Amazon S3 with parallel whole-object downloads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (io.ReadCloser, error)  // Open for reading
//	}
package blobstore
