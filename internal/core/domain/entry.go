package domain

import (
	"io/fs"
	"sync"
	"time"
)

// Entry is one file system node visited during a walk.
type Entry struct {
	// Path is the path of the node, rooted at the walk root as given.
	Path string
	// RelPath is the slash-separated path relative to the walk root.
	// For a file passed directly as the root it is the file's base name.
	RelPath string
	// Depth is the number of directory levels below the root; the root is 0.
	Depth int

	dir     bool
	symlink bool
	stat    func() (fs.FileInfo, error)
}

// NewEntry creates an Entry whose metadata is loaded on demand by stat.
func NewEntry(path, relPath string, depth int, dir, symlink bool, stat func() (fs.FileInfo, error)) *Entry {
	e := &Entry{
		Path:    path,
		RelPath: relPath,
		Depth:   depth,
		dir:     dir,
		symlink: symlink,
	}
	if stat != nil {
		e.stat = sync.OnceValues(stat)
	}
	return e
}

// IsDir reports whether the entry is a directory. A symbolic link that was not
// followed reports true when it resolves to a directory; the walk does not enter it.
func (e *Entry) IsDir() bool { return e.dir }

// IsSymlink reports whether the entry was reached through a symbolic link.
func (e *Entry) IsSymlink() bool { return e.symlink }

// Info returns the entry's metadata. The first call performs the stat; later
// calls return the same result.
func (e *Entry) Info() (fs.FileInfo, error) {
	if e.stat == nil {
		return nil, fs.ErrInvalid
	}
	return e.stat()
}

// ModTime returns the entry's last modification time.
func (e *Entry) ModTime() (time.Time, error) {
	info, err := e.Info()
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
