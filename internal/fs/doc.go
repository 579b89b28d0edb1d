// Package fs abstracts the file system operations of the local blob store
// so tests can inject write, sync and rename failures.
//
// Production code uses [Default]. Tests wrap it in a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("snapshots/", fs.Fault{FailAfterBytes: 16})
package fs
