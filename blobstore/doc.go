// Package blobstore publishes finalized database artifacts to a storage
// backend.
//
// Store is the minimal interface a backend implements. Implementations must
// be safe for concurrent use and make each Put atomic: a reader never sees a
// partially uploaded object.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system
//   - MemoryStore: in-memory, for tests
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3 through the multipart upload manager
//
// # Publishing
//
// Publish uploads a set of local files concurrently, bounded by a
// resource.Controller:
//
//	rc := resource.NewController(resource.Config{MaxConcurrentUploads: 4})
//	err := blobstore.Publish(ctx, store, paths, rc)
package blobstore
