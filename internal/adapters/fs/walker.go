// Package fs provides file system adapters for walking source trees and touching files.
package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"

	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Walker = (*Walker)(nil)

// readBatch is the number of directory entries read per call while a handle is open.
const readBatch = 64

// Walker provides depth-first walking of a directory tree.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields the root and every entry below it, honoring the symlink, depth,
// handle and device constraints in opts. Errors for individual entries are
// yielded in place of the entry and the walk carries on with its siblings.
func (w *Walker) Walk(root string, opts domain.WalkOptions) iter.Seq2[*domain.Entry, error] {
	return func(yield func(*domain.Entry, error) bool) {
		t := &traversal{
			opts:  opts,
			yield: yield,
		}
		defer t.closeAll()
		t.run(root)
	}
}

// dirFrame is a directory on the traversal stack.
type dirFrame struct {
	path  string
	rel   string
	depth int
	// info identifies the directory for loop detection; only set when following links.
	info    iofs.FileInfo
	f       *os.File
	pending []os.DirEntry
	// err is a read failure reported once pending is consumed.
	err error
}

// next returns the next child of the directory. ok is false once the directory is exhausted.
func (d *dirFrame) next() (os.DirEntry, bool, error) {
	for {
		if len(d.pending) > 0 {
			de := d.pending[0]
			d.pending = d.pending[1:]
			return de, true, nil
		}
		if d.err != nil {
			err := d.err
			d.err = nil
			return nil, false, err
		}
		if d.f == nil {
			return nil, false, nil
		}

		batch, err := d.f.ReadDir(readBatch)
		d.pending = batch
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.err = err
			}
			d.close()
		}
	}
}

// drain reads the remaining entries into memory and releases the handle.
func (d *dirFrame) drain() {
	if d.f == nil {
		return
	}
	rest, err := d.f.ReadDir(-1)
	d.pending = append(d.pending, rest...)
	if err != nil && d.err == nil {
		d.err = err
	}
	d.close()
}

func (d *dirFrame) close() {
	if d.f == nil {
		return
	}
	_ = d.f.Close()
	d.f = nil
}

// traversal holds the state of one Walk call.
type traversal struct {
	opts    domain.WalkOptions
	yield   func(*domain.Entry, error) bool
	stack   []*dirFrame
	rootDev uint64
}

func (t *traversal) run(root string) {
	if !t.visitRoot(root) {
		return
	}

	for len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		de, ok, err := top.next()
		if err != nil {
			t.pop()
			if !t.yield(nil, ioError(domain.ErrDirReadFailed, top.path, err)) {
				return
			}
			continue
		}
		if !ok {
			t.pop()
			continue
		}
		if !t.visitChild(top, de) {
			return
		}
	}
}

// visitRoot yields the root entry and pushes it when it is a directory.
// It returns false when the walk must stop.
func (t *traversal) visitRoot(root string) bool {
	lst, err := os.Lstat(root)
	if err != nil {
		t.yield(nil, ioError(domain.ErrSourceStatFailed, root, err))
		return false
	}

	info := lst
	isLink := lst.Mode()&iofs.ModeSymlink != 0
	followed := isLink && (t.opts.FollowRootLinks || t.opts.FollowLinks)
	if followed {
		info, err = os.Stat(root)
		if err != nil {
			t.yield(nil, traversalError(domain.ErrBrokenLink, root, err))
			return false
		}
	}

	if t.opts.SameFileSystem {
		dev, err := deviceID(root)
		if err != nil {
			t.yield(nil, deviceError(root, err))
			return false
		}
		t.rootDev = dev
	}

	isDir := info.IsDir()
	descend := isDir
	if isLink && !followed {
		isDir = linksToDir(root)
	}
	rel := "."
	if !isDir {
		rel = filepath.Base(root)
	}

	entry := domain.NewEntry(root, rel, 0, isDir, isLink, func() (iofs.FileInfo, error) {
		return info, nil
	})
	if !t.yield(entry, nil) {
		return false
	}

	if descend && t.canDescend(0) {
		frame := &dirFrame{path: root, rel: ".", depth: 0}
		if t.opts.FollowLinks {
			frame.info = info
		}
		return t.push(frame)
	}
	return true
}

// visitChild yields one directory entry and descends into it when allowed.
// It returns false when the walk must stop.
func (t *traversal) visitChild(parent *dirFrame, de os.DirEntry) bool {
	name := de.Name()
	p := filepath.Join(parent.path, name)
	rel := name
	if parent.rel != "." {
		rel = path.Join(parent.rel, name)
	}
	depth := parent.depth + 1

	isLink := de.Type()&iofs.ModeSymlink != 0
	isDir := de.IsDir()
	stat := de.Info

	if isLink && !t.opts.FollowLinks {
		// An unfollowed link is a leaf; a link to a directory still counts as one.
		return t.yield(domain.NewEntry(p, rel, depth, linksToDir(p), true, stat), nil)
	}

	var resolved iofs.FileInfo
	if isLink {
		info, err := os.Stat(p)
		if err != nil {
			return t.yield(nil, traversalError(domain.ErrBrokenLink, p, err))
		}
		resolved = info
		isDir = info.IsDir()
		stat = func() (iofs.FileInfo, error) { return info, nil }

		if isDir {
			if ancestor := t.ancestorOf(info); ancestor != "" {
				return t.yield(nil, errors.Join(
					domain.ErrTraversal,
					domain.ErrSymlinkLoop,
					zerr.With(zerr.With(zerr.New("link points to an ancestor directory"), "path", p), "ancestor", ancestor),
				))
			}
		}
	}

	entry := domain.NewEntry(p, rel, depth, isDir, isLink, stat)
	if !t.yield(entry, nil) {
		return false
	}

	if !isDir || !t.canDescend(depth) {
		return true
	}

	if t.opts.SameFileSystem {
		dev, err := deviceID(p)
		if err != nil {
			return t.yield(nil, deviceError(p, err))
		}
		if dev != t.rootDev {
			return true
		}
	}

	frame := &dirFrame{path: p, rel: rel, depth: depth}
	if t.opts.FollowLinks {
		if resolved == nil {
			info, err := de.Info()
			if err != nil {
				return t.yield(nil, ioError(domain.ErrDirReadFailed, p, err))
			}
			resolved = info
		}
		frame.info = resolved
	}
	return t.push(frame)
}

// linksToDir reports whether the symbolic link at p resolves to a directory.
// Broken links are not directories.
func linksToDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// canDescend reports whether children of a directory at depth would be within the depth limit.
func (t *traversal) canDescend(depth int) bool {
	return !t.opts.LimitDepth || depth < t.opts.MaxDepth
}

// ancestorOf returns the path of the directory on the stack that info refers to, if any.
func (t *traversal) ancestorOf(info iofs.FileInfo) string {
	for _, frame := range t.stack {
		if frame.info != nil && os.SameFile(frame.info, info) {
			return frame.path
		}
	}
	return ""
}

// push opens the directory, draining the oldest open directory first when the
// handle ceiling is reached. It returns false when the walk must stop.
func (t *traversal) push(frame *dirFrame) bool {
	if t.openHandles() >= max(t.opts.MaxOpenHandles, 1) {
		for _, open := range t.stack {
			if open.f != nil {
				open.drain()
				break
			}
		}
	}

	f, err := os.Open(frame.path)
	if err != nil {
		return t.yield(nil, ioError(domain.ErrDirReadFailed, frame.path, err))
	}
	frame.f = f
	t.stack = append(t.stack, frame)
	return true
}

// openHandles counts the directories on the stack that still hold a handle.
func (t *traversal) openHandles() int {
	n := 0
	for _, frame := range t.stack {
		if frame.f != nil {
			n++
		}
	}
	return n
}

func (t *traversal) pop() {
	t.stack[len(t.stack)-1].close()
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *traversal) closeAll() {
	for _, frame := range t.stack {
		frame.close()
	}
	t.stack = nil
}

func ioError(kind error, p string, cause error) error {
	return errors.Join(domain.ErrIO, zerr.With(zerr.Wrap(cause, kind.Error()), "path", p))
}

func traversalError(kind error, p string, cause error) error {
	return errors.Join(domain.ErrTraversal, kind, zerr.With(zerr.Wrap(cause, "cannot follow link"), "path", p))
}

func deviceError(p string, err error) error {
	if errors.Is(err, domain.ErrCrossDeviceUnsupported) {
		return errors.Join(domain.ErrTraversal, err, zerr.With(zerr.New("cannot compare devices"), "path", p))
	}
	return ioError(domain.ErrSourceStatFailed, p, err)
}
