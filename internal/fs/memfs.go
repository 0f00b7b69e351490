package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var _ Access = (*Mem)(nil)

// Mem is an in-memory Access. It backs previews and tests that need failure
// injection the local file system can't produce reliably.
type Mem struct {
	mu    sync.RWMutex
	nodes map[string]*memNode
	clock time.Time

	unreadable map[string]bool
	failures   map[string]error // op + "\x00" + path -> error
	trashed    []string

	// ListHook runs at the start of every ListChildren call, outside the lock.
	ListHook func(path string)
}

type memNode struct {
	isDir   bool
	size    int64
	content []byte
	modTime time.Time
}

// NewMem creates an in-memory file system containing only "/".
func NewMem() *Mem {
	m := &Mem{
		nodes:      make(map[string]*memNode),
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		unreadable: make(map[string]bool),
		failures:   make(map[string]error),
	}
	m.nodes["/"] = &memNode{isDir: true, modTime: m.clock}
	return m
}

func (m *Mem) tickLocked() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *Mem) touchParentLocked(path string) {
	if parent, ok := m.nodes[filepath.Dir(path)]; ok {
		parent.modTime = m.tickLocked()
	}
}

func (m *Mem) mkdirAllLocked(path string) {
	path = filepath.Clean(path)
	if _, ok := m.nodes[path]; ok {
		return
	}
	m.mkdirAllLocked(filepath.Dir(path))
	m.nodes[path] = &memNode{isDir: true, modTime: m.tickLocked()}
	m.touchParentLocked(path)
}

// AddDir creates path and any missing parents.
func (m *Mem) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAllLocked(path)
}

// AddFile creates a file with content, creating parents as needed.
func (m *Mem) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.mkdirAllLocked(filepath.Dir(path))
	m.nodes[path] = &memNode{size: int64(len(content)), content: content, modTime: m.tickLocked()}
	m.touchParentLocked(path)
}

// SetModTime overrides the modification time of path.
func (m *Mem) SetModTime(path string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[filepath.Clean(path)]; ok {
		n.modTime = t
	}
}

// SetUnreadable marks path as not readable.
func (m *Mem) SetUnreadable(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unreadable[filepath.Clean(path)] = true
}

// Fail makes op ("metadata", "list", "copy", "move", "mkdir", "trash")
// on path return err.
func (m *Mem) Fail(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op+"\x00"+filepath.Clean(path)] = err
}

func (m *Mem) failureLocked(op, path string) error {
	return m.failures[op+"\x00"+filepath.Clean(path)]
}

// Trashed returns the paths moved to the trash, in order.
func (m *Mem) Trashed() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.trashed...)
}

// Content returns the bytes of a file.
func (m *Mem) Content(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[filepath.Clean(path)]
	if !ok || n.isDir {
		return nil, false
	}
	return n.content, true
}

func (m *Mem) IsReadable(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	_, ok := m.nodes[path]
	return ok && !m.unreadable[path]
}

func (m *Mem) FileExists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[filepath.Clean(path)]
	return ok
}

func (m *Mem) ListChildren(path string) ([]RawEntry, error) {
	if m.ListHook != nil {
		m.ListHook(path)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	path = filepath.Clean(path)
	if err := m.failureLocked("list", path); err != nil {
		return nil, err
	}
	n, ok := m.nodes[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: iofs.ErrNotExist}
	}
	if m.unreadable[path] {
		return nil, &os.PathError{Op: "open", Path: path, Err: iofs.ErrPermission}
	}
	if !n.isDir {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: iofs.ErrInvalid}
	}

	var out []RawEntry
	for p, child := range m.nodes {
		if p != path && filepath.Dir(p) == path {
			out = append(out, RawEntry{Name: filepath.Base(p), IsDir: child.isDir})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Mem) ReadMetadata(path string) (Metadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path = filepath.Clean(path)
	if err := m.failureLocked("metadata", path); err != nil {
		return Metadata{}, err
	}
	n, ok := m.nodes[path]
	if !ok {
		return Metadata{}, &os.PathError{Op: "stat", Path: path, Err: iofs.ErrNotExist}
	}
	mode := iofs.FileMode(FilePermission)
	if n.isDir {
		mode = iofs.ModeDir | DirPermission
	}
	return Metadata{
		IsDir:   n.isDir,
		Size:    n.size,
		Mode:    mode,
		ModTime: n.modTime,
		Created: n.modTime,
		Hidden:  IsHiddenName(filepath.Base(path)),
	}, nil
}

// subtreeLocked returns path and all paths below it.
func (m *Mem) subtreeLocked(path string) []string {
	prefix := path + string(filepath.Separator)
	paths := []string{path}
	for p := range m.nodes {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	return paths
}

func (m *Mem) Copy(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyLocked("copy", src, dst, false)
}

func (m *Mem) Move(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyLocked("move", src, dst, true)
}

func (m *Mem) copyLocked(op, src, dst string, remove bool) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if err := m.failureLocked(op, src); err != nil {
		return err
	}
	if _, ok := m.nodes[src]; !ok {
		return &os.PathError{Op: op, Path: src, Err: iofs.ErrNotExist}
	}
	if _, ok := m.nodes[dst]; ok {
		return &os.PathError{Op: op, Path: dst, Err: iofs.ErrExist}
	}
	if parent, ok := m.nodes[filepath.Dir(dst)]; !ok || !parent.isDir {
		return &os.PathError{Op: op, Path: dst, Err: iofs.ErrNotExist}
	}

	for _, p := range m.subtreeLocked(src) {
		n := *m.nodes[p]
		n.modTime = m.tickLocked()
		m.nodes[dst+strings.TrimPrefix(p, src)] = &n
		if remove {
			delete(m.nodes, p)
		}
	}
	m.touchParentLocked(dst)
	if remove {
		m.touchParentLocked(src)
	}
	return nil
}

func (m *Mem) CreateDirectory(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if err := m.failureLocked("mkdir", path); err != nil {
		return err
	}
	if _, ok := m.nodes[path]; ok {
		return &os.PathError{Op: "mkdir", Path: path, Err: iofs.ErrExist}
	}
	if parent, ok := m.nodes[filepath.Dir(path)]; !ok || !parent.isDir {
		return &os.PathError{Op: "mkdir", Path: path, Err: iofs.ErrNotExist}
	}
	m.nodes[path] = &memNode{isDir: true, modTime: m.tickLocked()}
	m.touchParentLocked(path)
	return nil
}

func (m *Mem) Trash(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if err := m.failureLocked("trash", path); err != nil {
		return err
	}
	if _, ok := m.nodes[path]; !ok {
		return &os.PathError{Op: "trash", Path: path, Err: iofs.ErrNotExist}
	}
	for _, p := range m.subtreeLocked(path) {
		delete(m.nodes, p)
	}
	m.trashed = append(m.trashed, path)
	m.touchParentLocked(path)
	return nil
}
