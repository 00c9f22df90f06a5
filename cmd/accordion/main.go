package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/accordion/internal/datasource"
	"github.com/vanderheijden86/accordion/pkg/config"
	"github.com/vanderheijden86/accordion/pkg/debug"
	"github.com/vanderheijden86/accordion/pkg/export"
	"github.com/vanderheijden86/accordion/pkg/metrics"
	"github.com/vanderheijden86/accordion/pkg/model"
	"github.com/vanderheijden86/accordion/pkg/ui"
	"github.com/vanderheijden86/accordion/pkg/version"
	"github.com/vanderheijden86/accordion/pkg/watcher"
)

// cliFlags holds the parsed command line. Negative numbers mean "not set".
type cliFlags struct {
	configPath string
	duration   int
	fps        int
	theme      string
	table      string
	noWatch    bool

	demo int
	open int

	snapshot     string
	snapshotCols int
	snapshotRows int
}

func main() {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/accordion/config.yaml)")
	flag.IntVar(&f.duration, "duration", -1, "Expand/collapse duration in milliseconds (0 disables animation)")
	flag.IntVar(&f.fps, "fps", -1, "Animation frames per second")
	flag.StringVar(&f.theme, "theme", "", "Theme: auto, dark or light")
	flag.StringVar(&f.table, "table", "", "SQLite table to read rows from")
	flag.BoolVar(&f.noWatch, "no-watch", false, "Do not reload when sources change")
	flag.IntVar(&f.demo, "demo", 0, "Show N generated demo rows instead of loading sources")
	flag.IntVar(&f.open, "open", 0, "Expand row N (1-based) on startup")
	flag.StringVar(&f.snapshot, "snapshot", "", "Render the list offscreen to an .svg or .png file and exit")
	flag.IntVar(&f.snapshotCols, "snapshot-width", 80, "Snapshot width in columns")
	flag.IntVar(&f.snapshotRows, "snapshot-height", 24, "Snapshot height in lines")
	metricsFlag := flag.Bool("metrics", false, "Write collected metrics as JSON to stderr on exit")
	initConfig := flag.Bool("init-config", false, "Interactively create the config file")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	// Registered first so it runs after the profile and metrics writers.
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	// CPU profiling support
	if *cpuProfile != "" {
		pf, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pf.Close()
		if err := pprof.StartCPUProfile(pf); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: accordion [options] [source ...]")
		fmt.Println("\nBrowse rows from .jsonl, .yaml or SQLite sources; one row expands at a time.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("accordion %s\n", version.Version)
		os.Exit(0)
	}

	if *initConfig {
		if err := runInitConfig(f.configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *metricsFlag {
		metrics.SetEnabled(true)
		defer func() {
			if err := metrics.WriteJSON(os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", err)
			}
		}()
	}

	if err := run(f, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = 1
	}
}

func run(f cliFlags, args []string) error {
	cfg, err := resolveConfig(f)
	if err != nil {
		return err
	}

	rows, sources, err := loadRows(context.Background(), cfg, f, args)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No rows found.")
		return nil
	}

	opts := modelOptions(cfg, f, sources)

	if f.snapshot != "" {
		m := ui.NewModel(rows, opts)
		if err := writeSnapshot(m, f.snapshot, f.snapshotCols, f.snapshotRows); err != nil {
			return err
		}
		fmt.Printf("Snapshot written to %s\n", f.snapshot)
		return nil
	}

	if cfg.Source.Watch && !f.noWatch && len(sources) > 0 {
		w, err := startWatcher(sources)
		if err != nil {
			// Non-fatal: the list still works, just without live reload
			fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", err)
		} else {
			opts.Watcher = w
		}
	}

	m := ui.NewModel(rows, opts)
	defer m.Stop()

	return runTUIProgram(m, cfg.List.Mouse)
}

// resolveConfig layers the config file, the environment and flags.
func resolveConfig(f cliFlags) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFrom(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	if f.duration >= 0 {
		cfg.Animation.DurationMS = f.duration
	}
	if f.fps >= 0 {
		cfg.Animation.FPS = f.fps
	}
	if f.theme != "" {
		cfg.UI.Theme = f.theme
	}
	if f.table != "" {
		cfg.Source.Table = f.table
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// loadRows returns demo rows, or the rows of the sources named on the
// command line or in the config.
func loadRows(ctx context.Context, cfg config.Config, f cliFlags, args []string) ([]model.Row, []datasource.DataSource, error) {
	if f.demo > 0 {
		return datasource.DemoRows(f.demo, 1), nil, nil
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.Source.Paths
	}
	if len(paths) == 0 {
		return nil, nil, errors.New("no sources: pass files or directories, set source.paths in the config, or use --demo N")
	}

	sources, err := datasource.Discover(paths, cfg.Source.Table)
	if err != nil {
		return nil, nil, err
	}
	if len(sources) == 0 {
		return nil, nil, fmt.Errorf("no .jsonl, .yaml or .db files in %v", paths)
	}
	for _, s := range sources {
		debug.Log("source: %s", s)
	}

	opts := datasource.ParseOptions{WarningHandler: func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}}
	rows, err := datasource.LoadAll(ctx, sources, opts)
	if err != nil {
		return nil, nil, err
	}
	return rows, sources, nil
}

func modelOptions(cfg config.Config, f cliFlags, sources []datasource.DataSource) ui.Options {
	title := "accordion"
	if len(sources) == 1 {
		title = sources[0].Path
	} else if f.demo > 0 {
		title = "accordion demo"
	}
	duration := cfg.Duration()
	if duration == 0 {
		duration = -1
	}
	return ui.Options{
		Title:    title,
		Duration: duration,
		FPS:      cfg.Animation.FPS,
		Gap:      cfg.List.Gap,
		Wrap:     cfg.List.Wrap,
		Mouse:    cfg.List.Mouse,
		Theme:    ui.ThemeFor(cfg.UI.Theme),
		Renderer: ui.NewMarkdownRenderer(markdownStyle(cfg.UI.Theme)),
		Sources:  sources,
		Open:     f.open,
	}
}

// markdownStyle maps a theme to a glamour style; "" lets glamour detect
// the background.
func markdownStyle(theme string) string {
	switch theme {
	case "dark", "light":
		return theme
	}
	return ""
}

func startWatcher(sources []datasource.DataSource) (*watcher.Watcher, error) {
	paths := make([]string, len(sources))
	for i, s := range sources {
		paths[i] = s.Path
	}
	w, err := watcher.NewWatcher(paths,
		watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	if w.IsPolling() {
		debug.Log("watcher: polling %s every %s", w.FilesystemType(), w.PollInterval())
	}
	return w, nil
}

// writeSnapshot lays the model out at cols x rows, finishes the startup
// transition and saves the visible list.
func writeSnapshot(m ui.Model, path string, cols, rows int) error {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: cols, Height: rows})
	m = updated.(ui.Model)
	if err := m.Err(); err != nil {
		return err
	}
	if err := m.List().Settle(); err != nil {
		return err
	}
	opts := m.Snapshot()
	opts.Path = path
	return export.SaveSnapshot(opts)
}

func runInitConfig(path string) error {
	if path == "" {
		path = config.ConfigPath()
	}
	if path == "" {
		return errors.New("cannot determine config directory")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	cfg, err = config.RunWizard(cfg)
	if err != nil {
		return err
	}
	if err := config.SaveTo(cfg, path); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

func runTUIProgram(m ui.Model, mouse bool) error {
	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set ACCORDION_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("ACCORDION_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return nil
		}
		return err
	}
	if fm, ok := final.(ui.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}
