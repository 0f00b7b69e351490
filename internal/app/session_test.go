package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gioui.org/io/key"

	"github.com/justyntemme/razorfs/internal/clipboard"
	"github.com/justyntemme/razorfs/internal/config"
	"github.com/justyntemme/razorfs/internal/fs"
	"github.com/justyntemme/razorfs/internal/search"
)

// recorder captures snapshots and store writes.
type recorder struct {
	mu       sync.Mutex
	snaps    []Snapshot
	recent   []string
	searches []string
}

func (r *recorder) Update(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) AddRecent(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recent = append(r.recent, path)
}

func (r *recorder) AddSearch(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, query)
}

func (r *recorder) snapshots() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func memTree() *fs.Mem {
	m := fs.NewMem()
	m.AddDir("/home/u/docs")
	m.AddDir("/home/u/music")
	m.AddFile("/home/u/notes.txt", []byte("12345"))
	m.AddFile("/home/u/a.md", []byte("1"))
	m.AddFile("/home/u/.profile", nil)
	m.AddFile("/home/u/docs/report.txt", nil)
	m.AddFile("/srv/data/x.bin", nil)
	return m
}

func newSession(t *testing.T, m *fs.Mem) (*Session, *recorder) {
	t.Helper()
	r := &recorder{}
	s := New(Options{Access: m, Home: "/home/u", Recorder: r})
	s.Subscribe(r)
	t.Cleanup(s.Close)
	return s, r
}

func mustNavigate(t *testing.T, s *Session, loc string) {
	t.Helper()
	if err := s.Navigate(loc); err != nil {
		t.Fatalf("Navigate(%q): %v", loc, err)
	}
}

func entryNames(entries []fs.Entry) string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return strings.Join(names, ",")
}

func indexOf(entries []fs.Entry, name string) int {
	for i, e := range entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

func TestNavigate_LoadsSortedListing(t *testing.T) {
	s, r := newSession(t, memTree())
	mustNavigate(t, s, "/home/u")

	snap := s.Snapshot()
	if snap.Status != StatusLoaded {
		t.Fatalf("expected loaded, got %s", snap.Status)
	}
	if got := entryNames(snap.Entries); got != "docs,music,a.md,notes.txt" {
		t.Errorf("unexpected listing %q", got)
	}
	if !snap.CanGoUp || snap.CanGoBack || snap.CanGoForward {
		t.Errorf("unexpected flags: %+v", snap)
	}

	snaps := r.snapshots()
	if len(snaps) != 2 || snaps[0].Status != StatusLoading || snaps[1].Status != StatusLoaded {
		t.Errorf("expected loading then loaded, got %d snapshots", len(snaps))
	}
	if len(r.recent) != 1 || r.recent[0] != "/home/u" {
		t.Errorf("visit not recorded: %v", r.recent)
	}
}

func TestNew_ZeroOptionsSortAscending(t *testing.T) {
	s := New(Options{Access: memTree(), Home: "/home/u"})
	t.Cleanup(s.Close)
	mustNavigate(t, s, "/home/u")

	snap := s.Snapshot()
	if !snap.SortAscending {
		t.Fatal("zero options should sort ascending")
	}
	if got := entryNames(snap.Entries); got != "docs,music,a.md,notes.txt" {
		t.Errorf("unexpected listing %q", got)
	}
}

func TestOptionsFromConfig_SortDirection(t *testing.T) {
	cfg := config.DefaultConfig()
	if opts := OptionsFromConfig(*cfg); opts.SortDescending {
		t.Error("default config should sort ascending")
	}
	cfg.Browse.SortAscending = false
	if opts := OptionsFromConfig(*cfg); !opts.SortDescending {
		t.Error("sortAscending=false should map to SortDescending")
	}
}

func TestHistoryFlagsFollowCursor(t *testing.T) {
	s, _ := newSession(t, memTree())

	steps := []struct {
		name          string
		do            func() error
		loc           string
		back, forward bool
	}{
		{"home", func() error { return s.Navigate("/home/u") }, "/home/u", false, false},
		{"docs", func() error { return s.Navigate("docs") }, "/home/u/docs", true, false},
		{"srv", func() error { return s.Navigate("/srv/data") }, "/srv/data", true, false},
		{"back", s.Back, "/home/u/docs", true, true},
		{"back again", s.Back, "/home/u", false, true},
		{"back at start", s.Back, "/home/u", false, true},
		{"forward", s.Forward, "/home/u/docs", true, true},
		{"navigate truncates", func() error { return s.Navigate("/home/u/music") }, "/home/u/music", true, false},
		{"forward at end", s.Forward, "/home/u/music", true, false},
		{"up", s.Up, "/home/u", true, false},
	}
	for _, step := range steps {
		if err := step.do(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		snap := s.Snapshot()
		if snap.Location != step.loc {
			t.Errorf("%s: location %q, want %q", step.name, snap.Location, step.loc)
		}
		if snap.CanGoBack != step.back || snap.CanGoForward != step.forward {
			t.Errorf("%s: back=%v forward=%v, want %v %v",
				step.name, snap.CanGoBack, snap.CanGoForward, step.back, step.forward)
		}
	}
}

func TestNavigate_CurrentLocationIsNoop(t *testing.T) {
	s, r := newSession(t, memTree())
	mustNavigate(t, s, "/home/u")
	mustNavigate(t, s, "/home/u/docs")
	s.Click(0, 0)

	before := s.Snapshot()
	count := len(r.snapshots())
	historyLen := s.history.Len()

	mustNavigate(t, s, "/home/u/docs")
	mustNavigate(t, s, "")

	after := s.Snapshot()
	if s.history.Len() != historyLen {
		t.Errorf("history grew from %d to %d", historyLen, s.history.Len())
	}
	if len(after.Selected) != 1 || after.Selected[0] != before.Selected[0] {
		t.Errorf("selection changed: %v -> %v", before.Selected, after.Selected)
	}
	if len(r.snapshots()) != count {
		t.Error("no-op navigation should not notify observers")
	}
}

func TestNavigate_ClearsSelection(t *testing.T) {
	s, _ := newSession(t, memTree())
	mustNavigate(t, s, "/home/u")
	s.SelectAll()
	mustNavigate(t, s, "/home/u/docs")
	if got := s.Snapshot().Selected; len(got) != 0 {
		t.Errorf("selection should be cleared, got %v", got)
	}
}

func TestNavigate_Errors(t *testing.T) {
	m := memTree()
	m.SetUnreadable("/srv/data")
	s, _ := newSession(t, m)

	tests := []struct {
		loc     string
		kind    error
		message string
	}{
		{"/nowhere", fs.ErrNotFound, "/nowhere no longer exists"},
		{"/srv/data", fs.ErrPermissionDenied, "Permission denied: /srv/data"},
		{"/home/u/notes.txt", nil, "not a directory"},
	}
	for _, tt := range tests {
		err := s.Navigate(tt.loc)
		if err == nil {
			t.Fatalf("Navigate(%q): expected error", tt.loc)
		}
		if tt.kind != nil && !errors.Is(err, tt.kind) {
			t.Errorf("Navigate(%q): got %v, want %v", tt.loc, err, tt.kind)
		}
		snap := s.Snapshot()
		if snap.Status != StatusErrored || snap.Location != tt.loc {
			t.Errorf("Navigate(%q): status %s at %q", tt.loc, snap.Status, snap.Location)
		}
		if snap.Message != tt.message {
			t.Errorf("Navigate(%q): message %q, want %q", tt.loc, snap.Message, tt.message)
		}
		if len(snap.Entries) != 0 {
			t.Errorf("Navigate(%q): errored state should have no entries", tt.loc)
		}
	}
}

func TestRetry_AfterFailureResolves(t *testing.T) {
	m := memTree()
	s, _ := newSession(t, m)
	if err := s.Navigate("/later"); err == nil {
		t.Fatal("expected not found")
	}

	m.AddFile("/later/file", nil)
	if err := s.Retry(); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	snap := s.Snapshot()
	if snap.Status != StatusLoaded || entryNames(snap.Entries) != "file" {
		t.Errorf("retry should load the location, got %s %q", snap.Status, entryNames(snap.Entries))
	}
	if snap.CanGoBack {
		t.Error("retry must not push history")
	}
}

func TestRefresh_KeepsSelectionOfSurvivingEntries(t *testing.T) {
	m := memTree()
	s, _ := newSession(t, m)
	mustNavigate(t, s, "/home/u")

	entries := s.Snapshot().Entries
	s.Click(indexOf(entries, "a.md"), 0)
	s.Click(indexOf(entries, "notes.txt"), key.ModShortcut)

	m.Trash("/home/u/a.md")
	m.AddFile("/home/u/b.md", nil)
	if err := s.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	snap := s.Snapshot()
	if got := entryNames(snap.Entries); got != "docs,music,b.md,notes.txt" {
		t.Fatalf("unexpected listing %q", got)
	}
	if got := entryNames(s.SelectedEntries()); got != "notes.txt" {
		t.Errorf("expected notes.txt to stay selected, got %q", got)
	}
	if snap.CanGoBack {
		t.Error("refresh must not push history")
	}
}

func TestStaleListingIsDiscarded(t *testing.T) {
	m := memTree()
	s, r := newSession(t, m)

	var once sync.Once
	m.ListHook = func(path string) {
		if path != "/home/u" {
			return
		}
		// A newer navigation completes while /home/u is still being read.
		once.Do(func() {
			if err := s.Navigate("/srv/data"); err != nil {
				t.Errorf("Navigate: %v", err)
			}
		})
	}

	if err := s.Navigate("/home/u"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	snap := s.Snapshot()
	if snap.Location != "/srv/data" || entryNames(snap.Entries) != "x.bin" {
		t.Errorf("newer navigation overwritten: %q %q", snap.Location, entryNames(snap.Entries))
	}
	for _, sn := range r.snapshots() {
		if sn.Status == StatusLoaded && sn.Location == "/home/u" {
			t.Error("stale listing was published")
		}
	}
}

func TestSetSortOption(t *testing.T) {
	s, _ := newSession(t, memTree())
	mustNavigate(t, s, "/home/u")
	s.Click(indexOf(s.Snapshot().Entries, "notes.txt"), 0)
	historyLen := s.history.Len()

	s.SetSortOption(fs.SortBySize)
	snap := s.Snapshot()
	if snap.SortKey != fs.SortBySize || !snap.SortAscending {
		t.Fatalf("new key should sort ascending, got %s asc=%v", snap.SortKey, snap.SortAscending)
	}
	if got := entryNames(snap.Entries); got != "docs,music,a.md,notes.txt" {
		t.Errorf("size ascending: %q", got)
	}

	s.SetSortOption(fs.SortBySize)
	snap = s.Snapshot()
	if snap.SortAscending {
		t.Error("same key should flip direction")
	}
	if got := entryNames(snap.Entries); !strings.HasPrefix(got, "music,docs") && !strings.HasPrefix(got, "docs,music") {
		t.Errorf("directories must stay first, got %q", got)
	}
	if !strings.HasSuffix(entryNames(snap.Entries), "notes.txt,a.md") {
		t.Errorf("size descending: %q", entryNames(snap.Entries))
	}

	s.SetSortOption(fs.SortBySize)
	if !s.Snapshot().SortAscending {
		t.Error("two flips should restore the original direction")
	}

	if got := entryNames(s.SelectedEntries()); got != "notes.txt" {
		t.Errorf("sorting must not change the selection, got %q", got)
	}
	cursor := s.Snapshot().Cursor
	if s.Snapshot().Entries[cursor].Name != "notes.txt" {
		t.Error("cursor should follow its entry across a re-sort")
	}
	if s.history.Len() != historyLen {
		t.Error("sorting must not touch history")
	}
}

func TestSetShowHidden(t *testing.T) {
	s, _ := newSession(t, memTree())
	mustNavigate(t, s, "/home/u")
	if strings.Contains(entryNames(s.Snapshot().Entries), ".profile") {
		t.Fatal("dotfiles should be hidden by default")
	}
	if err := s.SetShowHidden(true); err != nil {
		t.Fatalf("SetShowHidden: %v", err)
	}
	snap := s.Snapshot()
	if !snap.ShowHidden || !strings.Contains(entryNames(snap.Entries), ".profile") {
		t.Errorf("dotfiles should be listed, got %q", entryNames(snap.Entries))
	}
}

func TestSelectionPassThroughs(t *testing.T) {
	s, _ := newSession(t, memTree())
	mustNavigate(t, s, "/home/u")

	s.Click(0, 0)
	s.MoveCursor(2, key.ModShift)
	if got := entryNames(s.SelectedEntries()); got != "docs,music,a.md" {
		t.Errorf("shift-move: %q", got)
	}
	s.SelectAll()
	if n := len(s.Snapshot().Selected); n != 4 {
		t.Errorf("select all: %d", n)
	}
	s.DeselectAll()
	if snap := s.Snapshot(); len(snap.Selected) != 0 || snap.Cursor != -1 {
		t.Errorf("deselect all: %v cursor=%d", snap.Selected, snap.Cursor)
	}
	s.SelectRange(1, 2)
	if got := entryNames(s.SelectedEntries()); got != "music,a.md" {
		t.Errorf("range: %q", got)
	}
}

func TestCopyPaste(t *testing.T) {
	m := memTree()
	m.AddFile("/home/u/docs/notes.txt", nil)
	s, _ := newSession(t, m)
	mustNavigate(t, s, "/home/u")

	entries := s.Snapshot().Entries
	s.Click(indexOf(entries, "notes.txt"), 0)
	s.Click(indexOf(entries, "a.md"), key.ModShortcut)
	s.Copy()
	if snap := s.Snapshot(); snap.Clipboard != clipboard.CopyOp || snap.ClipboardCount != 2 {
		t.Fatalf("clipboard: %s %d", snap.Clipboard, snap.ClipboardCount)
	}

	mustNavigate(t, s, "/home/u/docs")
	if err := s.Paste(); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	after := s.Snapshot().Entries
	if len(after) != 4 || indexOf(after, "a.md") < 0 || indexOf(after, "notes (copy 1).txt") < 0 {
		t.Errorf("after paste: %q", entryNames(after))
	}
	if s.Snapshot().ClipboardCount != 2 {
		t.Error("copy should stay on the clipboard")
	}
}

func TestCutPaste_ClearsClipboard(t *testing.T) {
	m := memTree()
	s, _ := newSession(t, m)
	mustNavigate(t, s, "/home/u")
	s.Click(indexOf(s.Snapshot().Entries, "a.md"), 0)
	s.Cut()

	mustNavigate(t, s, "/home/u/music")
	if err := s.Paste(); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	snap := s.Snapshot()
	if entryNames(snap.Entries) != "a.md" {
		t.Errorf("after cut paste: %q", entryNames(snap.Entries))
	}
	if snap.Clipboard != clipboard.None || snap.ClipboardCount != 0 {
		t.Errorf("clipboard should be empty, got %s %d", snap.Clipboard, snap.ClipboardCount)
	}
	if m.FileExists("/home/u/a.md") {
		t.Error("source should be gone")
	}

	if err := s.Paste(); !errors.Is(err, fs.ErrEmptyClipboard) {
		t.Errorf("expected empty clipboard, got %v", err)
	}
}

func TestTrash_PartialFailure(t *testing.T) {
	m := memTree()
	m.Fail("trash", "/home/u/notes.txt", os.ErrPermission)
	s, _ := newSession(t, m)
	mustNavigate(t, s, "/home/u")

	s.SelectAll()
	err := s.Trash()
	var pe *fs.PartialError
	if !errors.As(err, &pe) || pe.Count() != 1 || pe.Total != 4 {
		t.Fatalf("expected one of four failures, got %v", err)
	}
	if !errors.Is(err, fs.ErrPartialFailure) {
		t.Error("aggregate should match ErrPartialFailure")
	}
	if got := Describe(err); got != "1 of 4 items could not be completed" {
		t.Errorf("Describe: %q", got)
	}
	if got := entryNames(s.Snapshot().Entries); got != "notes.txt" {
		t.Errorf("only the failed entry should remain, got %q", got)
	}
	if len(m.Trashed()) != 3 {
		t.Errorf("expected 3 trashed, got %v", m.Trashed())
	}
}

func TestCreateFolderAndRename(t *testing.T) {
	m := memTree()
	s, _ := newSession(t, m)
	mustNavigate(t, s, "/home/u")

	if err := s.CreateFolder("  projects "); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if got := entryNames(s.SelectedEntries()); got != "projects" {
		t.Errorf("new folder should be selected, got %q", got)
	}
	if err := s.CreateFolder("projects"); err == nil {
		t.Error("expected already exists")
	}
	for _, bad := range []string{"", "..", "a/b"} {
		if err := s.CreateFolder(bad); err == nil {
			t.Errorf("CreateFolder(%q) should fail", bad)
		}
	}

	entry := s.Snapshot().Entries[indexOf(s.Snapshot().Entries, "notes.txt")]
	if err := s.Rename(entry, "todo.txt"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	snap := s.Snapshot()
	if indexOf(snap.Entries, "todo.txt") < 0 || indexOf(snap.Entries, "notes.txt") >= 0 {
		t.Errorf("rename not reflected: %q", entryNames(snap.Entries))
	}
	if got := entryNames(s.SelectedEntries()); got != "todo.txt" {
		t.Errorf("renamed entry should be selected, got %q", got)
	}

	entry = snap.Entries[indexOf(snap.Entries, "todo.txt")]
	if err := s.Rename(entry, "a.md"); err == nil {
		t.Error("rename onto an existing name should fail")
	}
}

type textClipboard struct{ got []string }

func (c *textClipboard) WritePaths(entries []fs.Entry) error {
	if len(entries) == 0 {
		return fs.ErrEmptyClipboard
	}
	for _, e := range entries {
		c.got = append(c.got, e.Path)
	}
	return nil
}

func TestCopyPaths(t *testing.T) {
	text := &textClipboard{}
	s := New(Options{Access: memTree(), Text: text})
	mustNavigate(t, s, "/home/u/docs")
	s.SelectAll()
	if err := s.CopyPaths(); err != nil {
		t.Fatalf("CopyPaths: %v", err)
	}
	if len(text.got) != 1 || text.got[0] != "/home/u/docs/report.txt" {
		t.Errorf("unexpected paths %v", text.got)
	}

	if err := New(Options{Access: memTree()}).CopyPaths(); err == nil {
		t.Error("expected an error without a system clipboard")
	}
}

func TestExpandPath(t *testing.T) {
	s, _ := newSession(t, memTree())
	if got := s.ExpandPath("docs"); got != "/home/u/docs" {
		t.Errorf("relative before any navigation should use home, got %q", got)
	}
	mustNavigate(t, s, "/srv")

	tests := []struct {
		in, want string
	}{
		{"", "/srv"},
		{"  ", "/srv"},
		{"~", "/home/u"},
		{"~/docs", "/home/u/docs"},
		{"/etc/../usr", "/usr"},
		{"data", "/srv/data"},
		{"..", "/"},
	}
	for _, tt := range tests {
		if got := s.ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHome(t *testing.T) {
	s, _ := newSession(t, memTree())
	mustNavigate(t, s, "/srv")
	if err := s.Home(); err != nil {
		t.Fatalf("Home: %v", err)
	}
	if loc := s.Location(); loc != "/home/u" {
		t.Errorf("expected home, got %q", loc)
	}
	if !s.Snapshot().CanGoBack {
		t.Error("home should push history")
	}
}

func TestUpAtRootIsNoop(t *testing.T) {
	s, _ := newSession(t, memTree())
	mustNavigate(t, s, "/")
	if s.Snapshot().CanGoUp {
		t.Error("root has no parent")
	}
	if err := s.Up(); err != nil {
		t.Fatal(err)
	}
	if s.history.Len() != 1 {
		t.Errorf("up at root should not push, history=%v", s.history.Entries())
	}
}

func TestUnsubscribe(t *testing.T) {
	s := New(Options{Access: memTree()})
	var calls int
	unsubscribe := s.Subscribe(ObserverFunc(func(Snapshot) { calls++ }))
	mustNavigate(t, s, "/home/u")
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
	unsubscribe()
	mustNavigate(t, s, "/srv")
	if calls != 2 {
		t.Errorf("unsubscribed observer notified: %d", calls)
	}
}

// searchTree builds a real directory for the search engine to walk.
func searchTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"alpha.txt", "abc.txt", "cab.md", "zzz.go"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func waitForResults(t *testing.T, r *recorder, query string) Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, snap := range r.snapshots() {
			if snap.SearchMode && !snap.Searching && snap.SearchQuery == query {
				return snap
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no results published for %q", query)
	return Snapshot{}
}

func newSearchSession(t *testing.T) (*Session, *recorder, string) {
	t.Helper()
	dir := searchTree(t)
	r := &recorder{}
	s := New(Options{
		Recorder: r,
		Search:   search.Options{Debounce: 30 * time.Millisecond},
	})
	s.Subscribe(r)
	t.Cleanup(s.Close)
	mustNavigate(t, s, dir)
	return s, r, dir
}

func TestSearch_OnlyLatestQueryPublishes(t *testing.T) {
	s, r, _ := newSearchSession(t)

	s.Search("a")
	s.Search("ab")

	snap := waitForResults(t, r, "ab")
	if got := entryNames(snap.Visible()); !strings.Contains(got, "abc.txt") || strings.Contains(got, "alpha.txt") {
		t.Errorf("unexpected results %q", got)
	}

	time.Sleep(50 * time.Millisecond)
	for _, sn := range r.snapshots() {
		if sn.SearchMode && !sn.Searching && sn.SearchQuery != "ab" {
			t.Errorf("results for superseded query %q were published", sn.SearchQuery)
		}
		for _, res := range sn.SearchResults {
			if res.Entry.Name == "alpha.txt" {
				t.Error("alpha.txt only matches the superseded query")
			}
		}
	}
}

func TestSearch_ClearRestoresListing(t *testing.T) {
	s, r, _ := newSearchSession(t)
	listing := s.Snapshot().Entries

	s.Search("zzz")
	snap := waitForResults(t, r, "zzz")
	if got := entryNames(snap.Visible()); got != "zzz.go" {
		t.Errorf("unexpected results %q", got)
	}
	if entryNames(snap.Entries) != entryNames(listing) {
		t.Error("search mode must not touch the directory listing")
	}

	s.Search("  ")
	after := s.Snapshot()
	if after.SearchMode || after.SearchResults != nil {
		t.Error("empty input should leave search mode")
	}
	if len(after.Entries) != len(listing) || after.Entries[0].ID != listing[0].ID {
		t.Error("clearing search should show the same listing")
	}
}

func TestSearch_ClickSelectsResults(t *testing.T) {
	s, r, _ := newSearchSession(t)
	s.Search("txt")
	waitForResults(t, r, "txt")

	s.SelectAll()
	for _, e := range s.SelectedEntries() {
		if e.Ext() != "txt" {
			t.Errorf("selection should cover results only, got %s", e.Name)
		}
	}

	s.ClearSearch()
	if n := len(s.Snapshot().Selected); n != 0 {
		t.Errorf("leaving search should clear the selection, got %d", n)
	}
}

func TestSubmitSearch_RecordsHistory(t *testing.T) {
	s, r, _ := newSearchSession(t)
	s.Search("abc")
	s.SubmitSearch("a")
	s.SubmitSearch("cab")
	waitForResults(t, r, "cab")

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.searches) != 1 || r.searches[0] != "cab" {
		t.Errorf("only submitted queries of 2+ chars are stored, got %v", r.searches)
	}
}

func TestNavigate_LeavesSearchMode(t *testing.T) {
	s, r, dir := newSearchSession(t)
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	s.Search("abc")
	waitForResults(t, r, "abc")

	mustNavigate(t, s, filepath.Join(dir, "sub"))
	if s.Snapshot().SearchMode {
		t.Error("navigation should leave search mode")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fs.ErrEmptyClipboard, "Nothing to paste"},
		{&fs.Error{Kind: fs.KindPermissionDenied}, "Permission denied"},
		{fs.Classify("list", "/x", os.ErrNotExist), "/x no longer exists"},
		{fs.Other("mkdir", "/x", "already exists"), "already exists"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		if got := Describe(tt.err); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
