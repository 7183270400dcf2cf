package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var (
	ErrInvalid = errors.New("invalid")
	timeNow    = func() time.Time { return time.Now().UTC() }
)

const (
	defaultPerm      fs.FileMode = 0o644
	backupDirName                = ".weekly-backups"
	defaultKeepCount             = 10
)

// Options configures a File.
type Options struct {
	// Backup snapshots the on-disk content before the first save.
	Backup bool
	// BackupDir defaults to ".weekly-backups" next to the document.
	BackupDir string
	// Keep is the number of snapshots retained; 0 means the default.
	Keep   int
	Logger *slog.Logger
}

// File is the document store: one Markdown file read and written whole.
type File struct {
	Path string
	opts Options

	snapshotted bool
}

// Open returns a store for path. It does not touch the filesystem.
func Open(path string, opts Options) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: document path is required", ErrInvalid)
	}
	path = expandHome(path)
	if strings.TrimSpace(opts.BackupDir) == "" {
		opts.BackupDir = filepath.Join(filepath.Dir(path), backupDirName)
	} else {
		opts.BackupDir = expandHome(opts.BackupDir)
	}
	if opts.Keep <= 0 {
		opts.Keep = defaultKeepCount
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &File{Path: path, opts: opts}, nil
}

// Load returns the whole document with CRLF line endings normalized to LF.
// A missing file is an empty document.
func (f *File) Load() (string, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.opts.Logger.Debug("document.missing", "path", f.Path)
			return "", nil
		}
		return "", err
	}
	return strings.ReplaceAll(string(b), "\r\n", "\n"), nil
}

// Save replaces the document with content.
func (f *File) Save(content string) error {
	if f.opts.Backup && !f.snapshotted {
		if _, err := f.Snapshot(); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		f.snapshotted = true
	}
	target, err := f.target()
	if err != nil {
		return err
	}
	perm := defaultPerm
	if fi, err := os.Stat(target); err == nil {
		perm = fi.Mode().Perm()
	}
	if err := atomicWriteFile(target, []byte(content), perm); err != nil {
		return err
	}
	f.opts.Logger.Info("document.saved", "path", target, "bytes", len(content))
	return nil
}

// target resolves symlinks so the rename replaces the linked file, not the
// link. A missing document, or a link to a missing file, is written in place.
func (f *File) target() (string, error) {
	resolved, err := filepath.EvalSymlinks(f.Path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if dest, lerr := os.Readlink(f.Path); lerr == nil {
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(f.Path), dest)
		}
		return dest, nil
	}
	return f.Path, nil
}

// Snapshot copies the current on-disk document into the backup directory
// and prunes old snapshots. It returns "" when there is nothing to copy.
func (f *File) Snapshot() (string, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	name := fmt.Sprintf("%s-%s%s", f.backupPrefix(), newULID(), filepath.Ext(f.Path))
	path := filepath.Join(f.opts.BackupDir, name)
	if err := atomicWriteFile(path, b, defaultPerm); err != nil {
		return "", err
	}
	f.opts.Logger.Debug("document.snapshot", "path", path)
	if err := f.prune(); err != nil {
		return path, err
	}
	return path, nil
}

// Backups lists snapshots of this document, oldest first.
func (f *File) Backups() ([]string, error) {
	entries, err := os.ReadDir(f.opts.BackupDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	prefix := f.backupPrefix() + "-"
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		out = append(out, filepath.Join(f.opts.BackupDir, e.Name()))
	}
	// ULIDs sort by creation time.
	sort.Strings(out)
	return out, nil
}

func (f *File) prune() error {
	backups, err := f.Backups()
	if err != nil {
		return err
	}
	for len(backups) > f.opts.Keep {
		if err := os.Remove(backups[0]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		backups = backups[1:]
	}
	return nil
}

func (f *File) backupPrefix() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newULID() string {
	t := ulid.Timestamp(timeNow())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		// fallback
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToUpper(id.String())
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
