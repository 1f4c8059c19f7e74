// Package fs abstracts the file system writes of the local blob store so
// tests can inject failures.
//
// Production code uses [Default] ([LocalFS]). Tests wrap it in a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: 16})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
//
// The interfaces carry no context.Context; local writes are not
// interruptible at the syscall level.
package fs
