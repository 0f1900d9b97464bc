package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"sync"
	"syscall"
)

// Op names an [FS] method for [Faulty.Fail].
type Op string

// Operations that can be failed.
const (
	OpOpen            Op = "open"
	OpOpenFile        Op = "openfile"
	OpWriteFileAtomic Op = "writeatomic"
	OpMkdirAll        Op = "mkdirall"
	OpStat            Op = "stat"

	// OpWrite fails Write on files opened through OpenFile after writing
	// half of the buffer, the way a full disk does.
	OpWrite Op = "write"
)

// InjectedError marks an error as intentionally injected by [Faulty].
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Err error
}

// Error returns the underlying error's message.
func (e *InjectedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Faulty].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Faulty wraps an [FS] and fails selected operations with real OS errors
// (syscall.Errno inside *fs.PathError), so callers see exactly what a full
// disk or a read-only mount would produce.
//
// Operations that are not failed pass through to the wrapped FS. Faulty is
// safe for concurrent use.
type Faulty struct {
	fs FS

	mu     sync.Mutex
	faults map[Op]syscall.Errno
	calls  map[Op]int
}

// NewFaulty wraps fs. No operation fails until [Faulty.Fail] is called.
func NewFaulty(fs FS) *Faulty {
	return &Faulty{
		fs:     fs,
		faults: make(map[Op]syscall.Errno),
		calls:  make(map[Op]int),
	}
}

// Fail makes every later call of op return errno.
func (f *Faulty) Fail(op Op, errno syscall.Errno) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults[op] = errno
}

// Heal clears all injected faults.
func (f *Faulty) Heal() {
	f.mu.Lock()
	defer f.mu.Unlock()

	clear(f.faults)
}

// Calls returns how many times op was invoked, failed or not.
func (f *Faulty) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *Faulty) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	errno, ok := f.faults[op]
	if !ok {
		return nil
	}

	return &InjectedError{Err: &iofs.PathError{Op: string(op), Path: path, Err: errno}}
}

func (f *Faulty) Open(path string) (File, error) {
	if err := f.check(OpOpen, path); err != nil {
		return nil, err
	}

	return f.fs.Open(path)
}

func (f *Faulty) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if err := f.check(OpOpenFile, path); err != nil {
		return nil, err
	}

	file, err := f.fs.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, path: path, faulty: f}, nil
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWriteFileAtomic, path); err != nil {
		return err
	}

	return f.fs.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}

	return f.fs.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat, path); err != nil {
		return nil, err
	}

	return f.fs.Stat(path)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.check(OpStat, path); err != nil {
		return false, err
	}

	return f.fs.Exists(path)
}

type faultyFile struct {
	File

	path   string
	faulty *Faulty
}

func (f *faultyFile) Write(p []byte) (int, error) {
	if err := f.faulty.check(OpWrite, f.path); err != nil {
		n, _ := f.File.Write(p[:len(p)/2])

		return n, err
	}

	return f.File.Write(p)
}

// Compile-time interface check.
var _ FS = (*Faulty)(nil)
