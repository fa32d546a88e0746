package blobstore

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/hupe1980/strucdb/internal/fs"
	"github.com/hupe1980/strucdb/internal/resource"
	"golang.org/x/sync/errgroup"
)

// Publish uploads the local files at paths to st, each under its base name.
// Uploads run concurrently up to rc's upload slots and read at rc's IO rate;
// a nil rc uploads one file at a time without a rate limit. The first failure
// cancels the remaining uploads.
func Publish(ctx context.Context, st Store, paths []string, rc *resource.Controller) error {
	return PublishWithPrefix(ctx, st, "", paths, rc)
}

// PublishWithPrefix is Publish with prefix joined in front of every name.
func PublishWithPrefix(ctx context.Context, st Store, prefix string, paths []string, rc *resource.Controller) error {
	if rc == nil {
		rc = resource.NewController(resource.Config{})
	}

	var acquireErr error
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		name := path.Join(prefix, filepath.Base(p))
		if acquireErr = rc.AcquireUpload(gctx); acquireErr != nil {
			break
		}
		g.Go(func() error {
			defer rc.ReleaseUpload()
			if err := upload(gctx, st, name, p, rc); err != nil {
				return fmt.Errorf("publish %s: %w", p, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return acquireErr
}

func upload(ctx context.Context, st Store, name, localPath string, rc *resource.Controller) error {
	f, err := fs.Open(fs.Default, localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return st.Put(ctx, name, resource.NewRateLimitedReader(ctx, f, rc), info.Size())
}
