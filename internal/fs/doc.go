// Package fs provides the filesystem seam used by the database writers.
//
// Production code uses [Default] ([LocalFS]). Tests wrap it in a [FaultyFS]
// to make writes, syncs, closes or renames fail on selected files:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".index.tmp", fs.Fault{FailAfterBytes: 0})
//	w, _ := store.Create(data, index, 4, store.WithFileSystem(ffs))
//
// Operations take no context.Context; local file operations are not
// interruptible at the syscall level.
package fs
