package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"gioui.org/io/key"
	"github.com/dustin/go-humanize"

	"github.com/justyntemme/razorfs/internal/app"
	"github.com/justyntemme/razorfs/internal/clipboard"
	"github.com/justyntemme/razorfs/internal/config"
	"github.com/justyntemme/razorfs/internal/debug"
	"github.com/justyntemme/razorfs/internal/fs"
	"github.com/justyntemme/razorfs/internal/metrics"
	"github.com/justyntemme/razorfs/internal/store"
	"github.com/justyntemme/razorfs/internal/trash"
)

func main() {
	configPath := flag.String("config", config.ConfigPath(), "Config file")
	generate := flag.Bool("generate-config", false, "Write the default config file and exit")
	dbPath := flag.String("db", "", "History database (default: user config dir)")
	noStore := flag.Bool("no-store", false, "Do not record recent locations and searches")
	hidden := flag.Bool("hidden", false, "Include dotfiles")
	sortKey := flag.String("sort", "", "Sort key: name, date, type, size")
	desc := flag.Bool("desc", false, "Sort descending")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address until interrupted")
	timeout := flag.Duration("timeout", 30*time.Second, "Search timeout")
	flag.Usage = printUsage
	flag.Parse()

	if *generate {
		backup, err := config.GenerateConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if backup != "" {
			fmt.Printf("Backed up existing config to %s\n", backup)
		}
		fmt.Printf("Wrote %s\n", *configPath)
		return
	}

	defer debug.Sync()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfgMgr := config.NewManager()
	if err := cfgMgr.LoadFrom(*configPath); err != nil {
		log.Printf("Config: %v", err)
	}
	if err := cfgMgr.ParseError(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s is invalid, using defaults: %v\n", *configPath, err)
	}
	cfg := cfgMgr.Get()

	m := metrics.New()
	opts := app.OptionsFromConfig(cfg)
	opts.Metrics = m
	opts.Text = clipboard.NewSystemText()
	opts.Home, _ = os.UserHomeDir()
	if *hidden {
		opts.ShowHidden = true
	}
	if *sortKey != "" {
		opts.SortKey = fs.ParseSortKey(*sortKey)
		opts.SortDescending = *desc
	}

	db := store.NewDB()
	if !*noStore {
		path := *dbPath
		if path == "" {
			var err error
			if path, err = store.DefaultPath(); err != nil {
				log.Printf("Store: %v", err)
			}
		}
		if path != "" {
			if err := db.Open(path); err != nil {
				log.Printf("Failed to open DB: %v", err)
			}
		}
		opts.Recorder = db
	}
	defer db.Close()

	session := app.New(opts)
	defer session.Close()

	r := &runner{session: session, db: db, timeout: *timeout, out: os.Stdout}
	err := r.run(args[0], args[1:])

	if *metricsAddr != "" {
		serveMetrics(*metricsAddr, m)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", app.Describe(err))
		session.Close()
		db.Close()
		debug.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: razorfs [flags] <command> [args]

Commands:
  ls [path]                 List a directory
  search <query> [-- path]  Search from path (default: home)
  mkdir <path>              Create a folder
  mv <path> <new-name>      Rename an entry
  cp <path>... <dir>        Copy entries into dir
  rm <path>...              Move entries to the trash
  paths <path>...           Copy paths to the system clipboard
  recent                    Recently visited locations
  history [prefix]          Search history
  trash                     List the trash
  empty-trash               Permanently delete the trash

Query directives: ext:go size:>1MB modified:>=2024-01-01 contents:text
  regex:pattern recursive: scope:system hidden:

Flags:
`)
	flag.PrintDefaults()
}

// serveMetrics blocks until SIGINT or SIGTERM.
func serveMetrics(addr string, m *metrics.Metrics) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: addr, Handler: m.Handler()}
	go func() {
		log.Printf("Metrics listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

type runner struct {
	session *app.Session
	db      *store.DB
	timeout time.Duration
	out     *os.File
}

func (r *runner) run(cmd string, args []string) error {
	switch cmd {
	case "ls", "list":
		return r.list(args)
	case "search", "find":
		return r.search(args)
	case "mkdir":
		return r.mkdir(args)
	case "mv", "rename":
		return r.rename(args)
	case "cp", "copy":
		return r.copy(args)
	case "rm", "trash-put":
		return r.trash(args)
	case "paths":
		return r.paths(args)
	case "recent":
		return r.printStrings(r.db.Recent(0))
	case "history":
		prefix := strings.Join(args, " ")
		return r.printStrings(r.db.SearchHistory(prefix, 0))
	case "trash":
		return r.listTrash()
	case "empty-trash":
		return trash.Empty()
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (r *runner) list(args []string) error {
	loc := "~"
	if len(args) > 0 {
		loc = args[0]
	}
	if err := r.session.Navigate(loc); err != nil {
		return err
	}
	snap := r.session.Snapshot()

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	defer w.Flush()
	for _, e := range snap.Entries {
		size := humanize.IBytes(uint64(e.Size))
		name := e.Name
		if e.IsDir {
			size, name = "-", name+"/"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", size, humanize.Time(e.ModTime), name)
	}
	return nil
}

func (r *runner) search(args []string) error {
	loc := "~"
	for i, a := range args {
		if a == "--" {
			if i+1 < len(args) {
				loc = args[i+1]
			}
			args = args[:i]
			break
		}
	}
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("search needs a query")
	}
	if err := r.session.Navigate(loc); err != nil {
		return err
	}

	done := make(chan app.Snapshot, 1)
	unsubscribe := r.session.Subscribe(app.ObserverFunc(func(s app.Snapshot) {
		if s.SearchMode && !s.Searching && s.SearchQuery == query {
			select {
			case done <- s:
			default:
			}
		}
	}))
	defer unsubscribe()

	r.session.SubmitSearch(query)

	var snap app.Snapshot
	select {
	case snap = <-done:
	case <-time.After(r.timeout):
		r.session.ClearSearch()
		return fmt.Errorf("search timed out after %s", r.timeout)
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	defer w.Flush()
	for _, res := range snap.SearchResults {
		fmt.Fprintf(w, "%.2f\t%s\t%s\n", res.Score, res.MatchType, res.Entry.Path)
	}
	return nil
}

// selectIn navigates to dir and selects the entries named by paths, which
// must all live in dir.
func (r *runner) selectIn(dir string, paths []string) error {
	if err := r.session.Navigate(dir); err != nil {
		return err
	}
	entries := r.session.Snapshot().Entries
	r.session.DeselectAll()
	for _, p := range paths {
		found := false
		for i, e := range entries {
			if e.Path == p {
				r.session.Click(i, key.ModShortcut)
				found = true
				break
			}
		}
		if !found {
			return fs.Classify("select", p, os.ErrNotExist)
		}
	}
	return nil
}

func (r *runner) absPaths(args []string) ([]string, string, error) {
	if len(args) == 0 {
		return nil, "", errors.New("missing path")
	}
	paths := make([]string, len(args))
	for i, a := range args {
		paths[i] = r.session.ExpandPath(a)
		if filepath.Dir(paths[i]) != filepath.Dir(paths[0]) {
			return nil, "", errors.New("all paths must be in the same directory")
		}
	}
	return paths, filepath.Dir(paths[0]), nil
}

func (r *runner) mkdir(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: mkdir <path>")
	}
	path := r.session.ExpandPath(args[0])
	if err := r.session.Navigate(filepath.Dir(path)); err != nil {
		return err
	}
	return r.session.CreateFolder(filepath.Base(path))
}

func (r *runner) rename(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: mv <path> <new-name>")
	}
	path := r.session.ExpandPath(args[0])
	if err := r.selectIn(filepath.Dir(path), []string{path}); err != nil {
		return err
	}
	return r.session.Rename(r.session.SelectedEntries()[0], args[1])
}

func (r *runner) copy(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: cp <path>... <dir>")
	}
	dest := r.session.ExpandPath(args[len(args)-1])
	paths, dir, err := r.absPaths(args[:len(args)-1])
	if err != nil {
		return err
	}
	if err := r.selectIn(dir, paths); err != nil {
		return err
	}
	r.session.Copy()
	if err := r.session.Navigate(dest); err != nil {
		return err
	}
	return r.session.Paste()
}

func (r *runner) trash(args []string) error {
	paths, dir, err := r.absPaths(args)
	if err != nil {
		return err
	}
	if err := r.selectIn(dir, paths); err != nil {
		return err
	}
	return r.session.Trash()
}

func (r *runner) paths(args []string) error {
	paths, dir, err := r.absPaths(args)
	if err != nil {
		return err
	}
	if err := r.selectIn(dir, paths); err != nil {
		return err
	}
	return r.session.CopyPaths()
}

func (r *runner) printStrings(values []string, err error) error {
	if err != nil {
		return err
	}
	for _, v := range values {
		fmt.Fprintln(r.out, v)
	}
	return nil
}

func (r *runner) listTrash() error {
	if !trash.IsAvailable() {
		return trash.ErrUnavailable
	}
	items, err := trash.List()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	defer w.Flush()
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.Time(it.DeletedAt), humanize.IBytes(uint64(it.Size)), it.OriginalPath)
	}
	return nil
}
