package fsops

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS is the read-only filesystem view used to probe for pipeline files.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
}

// ---------- OS-backed implementation ----------

type OS struct{}

func NewOS() OS { return OS{} }

func (OS) Stat(name string) (fs.FileInfo, error) { return os.Stat(filepath.Clean(name)) }

// ---------- In-memory implementation (for tests) ----------

// Mem exposes its afero.Fs so tests can lay out files before probing.
type Mem struct{ Fs afero.Fs }

func NewMem() Mem { return Mem{Fs: afero.NewMemMapFs()} }

func (m Mem) Stat(name string) (fs.FileInfo, error) { return m.Fs.Stat(filepath.Clean(name)) }

// ---------- High-level façade ----------

type Ops struct{ FS FS }

func NewOps(fs FS) Ops { return Ops{FS: fs} }

// IsRegularFile reports whether p exists and is not a directory.
func (o Ops) IsRegularFile(p string) bool {
	info, err := o.FS.Stat(p)
	return err == nil && !info.IsDir()
}

// FirstRegularFile returns the first candidate that exists as a regular file.
func (o Ops) FirstRegularFile(candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if o.IsRegularFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}
