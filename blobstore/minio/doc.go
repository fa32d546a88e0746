// Package minio provides a blobstore.Store implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible services (Ceph, SeaweedFS,
// Garage) without the AWS SDK:
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "my-bucket", "databases/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = blobstore.Publish(ctx, store, paths, nil)
package minio
