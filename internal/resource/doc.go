// Package resource bounds the resources used when publishing a database.
//
// A Controller limits two things:
//
//   - Concurrency: how many uploads run at once (weighted semaphore)
//   - IO: bytes per second read from local artifacts (token bucket)
//
// Usage:
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentUploads: 4,
//	    IOLimitBytesPerSec:   64 << 20,
//	})
//
//	if err := rc.AcquireUpload(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseUpload()
//
//	r := resource.NewRateLimitedReader(ctx, f, rc)
//
// All methods are safe for concurrent use. A nil *Controller imposes no
// limits, so callers can pass it through without checks.
package resource
