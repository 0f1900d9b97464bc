// Package fs provides the filesystem seam used by the task store.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the store needs
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] and atomic writes
//   - [Faulty]: testing wrapper that fails selected operations
//   - [Locker]: advisory flock-based locking on top of an [FS]
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File] and can be used with all
// standard library functions that accept [io.Reader] or [io.Writer].
type File interface {
	io.ReadWriteCloser

	// Fd returns the file descriptor. See [os.File.Fd].
	// Used by [Locker] for flock.
	Fd() uintptr

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)

	// Sync commits the file's contents to disk. See [os.File.Sync].
	Sync() error

	// Truncate changes the size of the file. See [os.File.Truncate].
	// The store uses it to undo a failed append.
	Truncate(size int64) error
}

// FS defines the filesystem operations used for reading, appending to and
// replacing the task file.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection (see [Faulty]).
type FS interface {
	// Open opens a file for reading. See [os.Open].
	Open(path string) (File, error)

	// OpenFile opens a file with specified flags and permissions. See [os.OpenFile].
	// The store uses it with [os.O_APPEND] to add rows.
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// WriteFileAtomic writes data to a temp file in the same directory and
	// renames it over path. Readers see either the old or the new content,
	// never a partial write.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}

// Compile-time interface checks.
var _ File = (*os.File)(nil)
