package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/calvinalkan/task-manager/internal/fs"
	"github.com/calvinalkan/task-manager/internal/task"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755

	// DefaultLockTimeout bounds how long Update and View wait for the lock.
	DefaultLockTimeout = 2 * time.Second
)

// Options configures a [File] store. The zero value is usable.
type Options struct {
	// FS is the filesystem seam. Defaults to [fs.NewReal].
	FS fs.FS

	// LockTimeout bounds lock acquisition. Defaults to [DefaultLockTimeout].
	LockTimeout time.Duration

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger
}

// File is the CSV-file backed [Store].
//
// Locks live next to the data file in .locks/<name>.lock, because the data
// file's inode changes on every [File.ReplaceAll].
type File struct {
	path        string
	lockPath    string
	fs          fs.FS
	locker      *fs.Locker
	lockTimeout time.Duration
	log         *log.Logger
}

// NewFile returns a store for the CSV file at path. Nothing is touched on
// disk until the first read or write.
func NewFile(path string, opts Options) (*File, error) {
	if path == "" {
		return nil, errors.New("new store: path is empty")
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	path = filepath.Clean(path)

	return &File{
		path:        path,
		lockPath:    filepath.Join(filepath.Dir(path), ".locks", filepath.Base(path)+".lock"),
		fs:          fsys,
		locker:      fs.NewLocker(fsys),
		lockTimeout: timeout,
		log:         logger.WithPrefix("store"),
	}, nil
}

// Path returns the data file location.
func (s *File) Path() string {
	return s.path
}

// LoadAll implements [Store].
func (s *File) LoadAll() ([]task.Task, error) {
	f, err := s.fs.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Debug("data file missing, store is empty", "path", s.path)

		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIOFailure, s.path, err)
	}

	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIOFailure, s.path, err)
	}

	tasks, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}

	s.log.Debug("loaded tasks", "path", s.path, "count", len(tasks))

	return tasks, nil
}

// Append implements [Store]. The header is written first when the file is
// missing or empty. A failed write is truncated away so the file keeps only
// whole rows.
func (s *File) Append(t task.Task) error {
	err := s.fs.MkdirAll(filepath.Dir(s.path), dirPerm)
	if err != nil {
		return fmt.Errorf("%w: create data directory: %w", ErrIOFailure, err)
	}

	var size int64

	info, err := s.fs.Stat(s.path)

	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("%w: stat %s: %w", ErrIOFailure, s.path, err)
	default:
		size = info.Size()
	}

	needHeader := size == 0

	data, err := encode([]task.Task{t}, needHeader)
	if err != nil {
		return fmt.Errorf("encode task %d: %w", t.ID, err)
	}

	f, err := s.fs.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, filePerm)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrIOFailure, s.path, err)
	}

	_, writeErr := f.Write(data)
	if writeErr != nil {
		if err := f.Truncate(size); err != nil {
			writeErr = errors.Join(writeErr, fmt.Errorf("truncate to %d bytes: %w", size, err))
		}
	} else {
		writeErr = f.Sync()
	}

	closeErr := f.Close()

	if err := errors.Join(writeErr, closeErr); err != nil {
		return fmt.Errorf("%w: append to %s: %w", ErrIOFailure, s.path, err)
	}

	s.log.Debug("appended task", "id", t.ID, "header", needHeader)

	return nil
}

// ReplaceAll implements [Store]. On failure the previous file content is
// left untouched.
func (s *File) ReplaceAll(tasks []task.Task) error {
	data, err := encode(tasks, true)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}

	err = s.fs.MkdirAll(filepath.Dir(s.path), dirPerm)
	if err != nil {
		return fmt.Errorf("%w: create data directory: %w", ErrIOFailure, err)
	}

	err = s.fs.WriteFileAtomic(s.path, data, filePerm)
	if err != nil {
		return fmt.Errorf("%w: replace %s: %w", ErrIOFailure, s.path, err)
	}

	s.log.Debug("replaced tasks", "path", s.path, "count", len(tasks))

	return nil
}

// CurrentRowCount implements [Store].
func (s *File) CurrentRowCount() (int, error) {
	tasks, err := s.LoadAll()
	if err != nil {
		return 0, err
	}

	return len(tasks), nil
}

// NextID implements [Store].
func (s *File) NextID() (int, error) {
	tasks, err := s.LoadAll()
	if err != nil {
		return 0, err
	}

	return task.MaxID(tasks) + 1, nil
}

// Update implements [Store].
func (s *File) Update(fn func() error) error {
	lock, err := s.locker.LockWithTimeout(s.lockPath, s.lockTimeout)
	if err != nil {
		return fmt.Errorf("%w: lock %s: %w", ErrIOFailure, s.lockPath, err)
	}

	return runLocked(lock, fn)
}

// View implements [Store]. A missing data file has nothing to guard, so fn
// runs without the shared lock and no lock file is created.
func (s *File) View(fn func() error) error {
	exists, err := s.fs.Exists(s.path)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrIOFailure, s.path, err)
	}

	if !exists {
		return fn()
	}

	lock, err := s.locker.RLockWithTimeout(s.lockPath, s.lockTimeout)
	if err != nil {
		return fmt.Errorf("%w: read lock %s: %w", ErrIOFailure, s.lockPath, err)
	}

	return runLocked(lock, fn)
}

func runLocked(lock *fs.Lock, fn func() error) error {
	fnErr := fn()

	closeErr := lock.Close()
	if closeErr == nil {
		return fnErr
	}

	return errors.Join(fnErr, fmt.Errorf("%w: release lock: %w", ErrIOFailure, closeErr))
}

var _ Store = (*File)(nil)
