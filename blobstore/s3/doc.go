// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", "databases/run-42")
//	if err != nil {
//	    return err
//	}
//	err = blobstore.Publish(ctx, store, paths, rc)
//
// Uploads go through the SDK upload manager: small artifacts are sent with a
// single PutObject, large ones as concurrent multipart uploads. CRC32C
// checksums are requested by default.
package s3
