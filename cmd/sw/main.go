package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/sheetwork/internal/datasource"
	"github.com/vanderheijden86/sheetwork/pkg/config"
	"github.com/vanderheijden86/sheetwork/pkg/debug"
	"github.com/vanderheijden86/sheetwork/pkg/export"
	"github.com/vanderheijden86/sheetwork/pkg/filter"
	"github.com/vanderheijden86/sheetwork/pkg/ingest"
	"github.com/vanderheijden86/sheetwork/pkg/model"
	"github.com/vanderheijden86/sheetwork/pkg/stats"
	"github.com/vanderheijden86/sheetwork/pkg/store"
	"github.com/vanderheijden86/sheetwork/pkg/version"
	"github.com/vanderheijden86/sheetwork/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	importFlag := flag.String("import", "", "Import a sheet export document (JSON) and initialize local storage")
	statsFlag := flag.Bool("stats", false, "Print detailed progress statistics")
	jsonFlag := flag.Bool("json", false, "Print the full state as JSON")
	searchFlag := flag.String("search", "", "Filter questions by title substring")
	difficultyFlag := flag.String("difficulty", "all", "Filter questions by difficulty (all, Basic, Easy, Medium, Hard)")
	statusFlag := flag.String("status", "all", "Filter questions by status (all, solved, unsolved)")
	exportMD := flag.String("export-md", "", "Write a markdown progress report to the given path")
	exportSVG := flag.String("export-svg", "", "Write an SVG progress snapshot to the given path")
	watchFlag := flag.Bool("watch", false, "Watch the snapshot file and reprint progress on change")
	checkFlag := flag.Bool("check-sources", false, "Compare all discovered sources and report inconsistencies")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: sw [options]")
		fmt.Println("\nA progress tracker for practice question sheets.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("sw %s\n", version.Version)
		os.Exit(0)
	}

	dir, err := datasource.SheetDir("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving sheet directory: %v\n", err)
		os.Exit(1)
	}

	if *importFlag != "" {
		if err := runImport(*importFlag, dir); err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *checkFlag {
		os.Exit(runCheckSources(dir))
	}

	appCfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue without config
		appCfg = config.DefaultConfig()
	}

	st := openStore(dir, appCfg)
	if err := st.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sheet: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'sw -import <file.json>' to initialize from a sheet export.")
		os.Exit(1)
	}

	switch {
	case *jsonFlag:
		printJSON(st)
	case *statsFlag:
		printStats(st)
	case *exportMD != "":
		if err := export.SaveMarkdown(st.Sheet(), st.Topics(), *exportMD); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote markdown report to %s\n", *exportMD)
	case *exportSVG != "":
		if err := export.SaveSVG(st.Sheet(), st.Topics(), *exportSVG); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote SVG snapshot to %s\n", *exportSVG)
	case *searchFlag != "" || *difficultyFlag != "all" || *statusFlag != "all":
		printFiltered(st, filter.Options{
			Search:     *searchFlag,
			Difficulty: *difficultyFlag,
			Status:     filter.Status(*statusFlag),
		})
	case *watchFlag:
		runWatch(st, dir, appCfg)
	default:
		printSummary(st)
	}
}

// openStore builds the store around multi-source loading with a JSON
// snapshot gateway for writes.
func openStore(dir string, cfg config.Config) *store.Store {
	gateway := datasource.NewJSONStore(filepath.Join(dir, datasource.SnapshotFileName))

	load := func() (model.Sheet, []model.Topic, error) {
		state, err := datasource.LoadStateFromDir(dir)
		if err != nil {
			return model.Sheet{}, nil, err
		}
		return state.Sheet, state.Topics, nil
	}

	s := store.New(load,
		store.WithGateway(gateway),
		store.WithTheme(cfg.UI.Theme),
	)

	// Restore the full persisted state (expansion flags, theme) when a
	// snapshot exists; fall back to the plain load otherwise.
	if state, err := datasource.LoadStateFromDir(dir); err == nil {
		s.Restore(state)
	} else if err := s.Init(); err != nil {
		debug.Log("initial load failed: %v", err)
	}
	return s
}

// runImport parses a sheet export document and seeds both stores.
func runImport(path, dir string) error {
	doc, err := ingest.ParseFile(path)
	if err != nil {
		return err
	}

	sheet, topics, err := ingest.Transform(doc, ingest.Options{
		WarningHandler: func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		},
	})
	if err != nil {
		return err
	}

	state := model.State{
		Sheet:             sheet,
		Topics:            topics,
		ExpandedTopics:    make(map[string]bool),
		ExpandedSubtopics: make(map[string]bool),
		Theme:             "dark",
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("imported sheet is inconsistent: %w", err)
	}

	if err := datasource.NewJSONStore(filepath.Join(dir, datasource.SnapshotFileName)).Save(state); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	db, err := datasource.OpenSQLiteStore(filepath.Join(dir, datasource.DatabaseFileName))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if err := db.Save(state); err != nil {
		return fmt.Errorf("writing database: %w", err)
	}

	overall := stats.Overall(topics)
	fmt.Printf("Imported %q: %d topics, %d questions\n", sheet.Name, len(topics), overall.Total)
	return nil
}

func runCheckSources(dir string) int {
	sources, err := datasource.DiscoverSources(datasource.DiscoveryOptions{
		SheetDir:               dir,
		ValidateAfterDiscovery: true,
		IncludeInvalid:         true,
		Logger:                 func(msg string) { debug.Log("%s", msg) },
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Discovery failed: %v\n", err)
		return 1
	}
	if len(sources) == 0 {
		fmt.Println("No sources found.")
		return 1
	}
	for _, src := range sources {
		fmt.Println(src.String())
	}

	diffs := datasource.CheckAllSourcesConsistent(sources, datasource.DefaultDiffOptions())
	if len(diffs) == 0 {
		fmt.Println("All sources are consistent.")
		return 0
	}
	for _, d := range diffs {
		fmt.Print(d.Summary())
	}
	return 1
}

func printJSON(st *store.Store) {
	data, err := json.MarshalIndent(st.Snapshot(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding state: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func printSummary(st *store.Store) {
	sheet := st.Sheet()
	overall := st.TotalProgress()

	name := sheet.Name
	if name == "" {
		name = "Question Sheet"
	}
	fmt.Printf("%s — %d/%d solved (%d%%)\n", name, overall.Solved, overall.Total, overall.Percent())
	for _, t := range st.Topics() {
		p := stats.ForTopic(t)
		fmt.Printf("  %-30s %d/%d\n", t.Name, p.Solved, p.Total)
	}
}

func printStats(st *store.Store) {
	detailed := st.DetailedStats()

	fmt.Printf("Overall: %d/%d (%d%%)\n\n", detailed.Overall.Solved, detailed.Overall.Total, detailed.Overall.Percent())

	fmt.Println("By difficulty:")
	for _, d := range model.Difficulties {
		p := detailed.ByDifficulty[d]
		if p == nil {
			continue
		}
		fmt.Printf("  %-8s %d/%d (%d%%)\n", d, p.Solved, p.Total, p.Percent())
	}

	fmt.Println("\nBy topic:")
	for _, tp := range detailed.ByTopic {
		fmt.Printf("  %-30s %d/%d\n", tp.Name, tp.Solved, tp.Total)
	}

	spread := st.CompletionSpread()
	if spread.Topics > 0 {
		fmt.Printf("\nCompletion spread: mean %.0f%%, stddev %.0f%%, min %.0f%%, max %.0f%%\n",
			spread.MeanRatio*100, spread.StdDev*100, spread.MinRatio*100, spread.MaxRatio*100)
	}
}

func printFiltered(st *store.Store, opts filter.Options) {
	questions := st.FilterAllQuestions(opts)
	if len(questions) == 0 {
		fmt.Println("No matching questions.")
		return
	}
	for _, q := range questions {
		box := " "
		if q.IsSolved {
			box = "x"
		}
		star := ""
		if q.IsStarred {
			star = " ⭐"
		}
		fmt.Printf("[%s] %-40s %s%s\n", box, q.Title, q.Difficulty, star)
	}
}

// runWatch reprints the summary whenever the snapshot changes on disk.
func runWatch(st *store.Store, dir string, cfg config.Config) {
	if !cfg.WatchEnabled() {
		fmt.Fprintln(os.Stderr, "Watching is disabled in config.")
		os.Exit(1)
	}

	path := filepath.Join(dir, datasource.SnapshotFileName)
	w, err := watcher.NewWatcher(path,
		watcher.WithOnError(func(err error) {
			debug.Log("watch error: %v", err)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
		os.Exit(1)
	}
	if err := w.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
		os.Exit(1)
	}
	defer w.Stop()

	printSummary(st)
	if w.IsPolling() {
		fmt.Fprintf(os.Stderr, "(polling %s every %v)\n", path, w.PollInterval())
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-w.Changed():
			if state, err := datasource.LoadStateFromDir(dir); err == nil {
				st.Restore(state)
			}
			fmt.Println("---")
			printSummary(st)
		case <-sigCh:
			return
		}
	}
}
