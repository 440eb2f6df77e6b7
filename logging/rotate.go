package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.innotegrity.dev/xerrors"
	"go.innotegrity.dev/xfault"
)

// syncWriter is a goroutine-safe wrapper for an [io.Writer].
//
// It ensures that Write calls are serialized so that two records rendered by different handlers sharing the same
// writer never interleave.
type syncWriter struct {
	// unexported variables
	mu sync.Mutex // mutex for synchronization
	w  io.Writer  // underlying writer
}

// newSyncWriter creates a new [syncWriter] object.
func newSyncWriter(w io.Writer) *syncWriter {
	return &syncWriter{w: w}
}

// Write implements the io.Writer interface.
func (sw *syncWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// rotatingWriter is an [io.Writer] backed by a file that is rotated in place once it reaches a maximum size.
//
// When a write would push the file past maxSize, the writer synchronously renames the current file to ".1",
// shifts ".1" through ".N-1" up by one, deletes anything beyond the backup count and reopens a fresh file before
// performing the write. The whole sequence runs under the writer's mutex, so a concurrent write can never observe
// a partially rotated file and no line is ever lost or split across the rotation boundary.
//
// A backup count of zero or less truncates the file in place instead of keeping rotated copies.
type rotatingWriter struct {
	// unexported variables
	backups   int          // number of rotated files to keep
	file      *os.File     // current log file
	fileMode  os.FileMode  // mode used when (re)creating the log file
	maxSize   int64        // maximum size of the current file in bytes; 0 disables rotation
	mu        sync.Mutex   // serializes writes and rotation
	path      string       // path to the current log file
	rotations int          // number of rotations performed, for introspection
	size      int64        // bytes currently in the file
}

// newRotatingWriter opens (or creates) the log file at the given path.
//
// This function may return an error with any of the following codes:
//   - [xfault.OptionsValidationError]: the log file could not be opened for writing
func newRotatingWriter(path string, maxSize int64, backups int, fileMode os.FileMode) (*rotatingWriter, xerrors.Error) {
	w := &rotatingWriter{
		backups:  backups,
		fileMode: fileMode,
		maxSize:  maxSize,
		path:     path,
	}
	if err := w.open(os.O_CREATE | os.O_APPEND | os.O_WRONLY); err != nil {
		return nil, err
	}
	return w, nil
}

// Write implements the io.Writer interface, rotating the file first if this write would push it past the
// maximum size.
func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, fmt.Errorf("%s: log file is closed", w.path)
	}
	if w.maxSize > 0 && w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the current log file. Subsequent writes fail.
func (w *rotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// open opens the log file with the given flags and records its current size. The caller must hold the mutex
// (or be the constructor).
func (w *rotatingWriter) open(flags int) xerrors.Error {
	file, err := os.OpenFile(w.path, flags, w.fileMode)
	if err != nil {
		return xerrors.Wrapf(xfault.OptionsValidationError, err, "failed to open log file '%s' for writing: %s",
			w.path, err.Error()).WithAttr("log_file", w.path)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return xerrors.Wrapf(xfault.OptionsValidationError, err, "failed to stat log file '%s': %s",
			w.path, err.Error()).WithAttr("log_file", w.path)
	}
	w.file = file
	w.size = info.Size()
	return nil
}

// rotate performs the synchronous rename/reopen sequence. The caller must hold the mutex.
func (w *rotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return err
	}
	w.file = nil

	if w.backups <= 0 {
		// no backups are kept; start the current file over
		if err := w.open(os.O_CREATE | os.O_TRUNC | os.O_WRONLY); err != nil {
			return err
		}
		w.rotations++
		return nil
	}

	// drop the oldest backup and shift the rest up by one
	os.Remove(fmt.Sprintf("%s.%d", w.path, w.backups))
	for i := w.backups - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", w.path, i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, fmt.Sprintf("%s.%d", w.path, i+1)); err != nil {
			return err
		}
	}
	if err := os.Rename(w.path, w.path+".1"); err != nil {
		return err
	}
	if err := w.open(os.O_CREATE | os.O_EXCL | os.O_WRONLY); err != nil {
		return err
	}
	w.rotations++
	return nil
}
