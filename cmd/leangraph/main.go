package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"leangraph/internal/checker"
	"leangraph/internal/config"
	"leangraph/internal/decl"
	"leangraph/internal/depgraph"
	"leangraph/internal/graph/neo4j"
	"leangraph/internal/libstore"
	"leangraph/internal/observability"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "leangraph",
		Short: "Crawl Lean libraries and build declaration dependency graphs",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/leangraph.yaml", "Config file path")

	var (
		inputPath string
		rootPath  string
		libName   string
		prelude   bool
	)
	crawlCmd := &cobra.Command{
		Use:   "crawl",
		Short: "Run the checker over Lean source files and store the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(configPath, inputPath, rootPath, libName, prelude)
		},
	}
	crawlCmd.Flags().StringVar(&inputPath, "input", "", "Input path (file or directory of .lean files)")
	crawlCmd.Flags().StringVar(&rootPath, "root", "", "Checker working directory (defaults to the input's directory)")
	crawlCmd.Flags().StringVar(&libName, "lib", "", "Library name")
	crawlCmd.Flags().BoolVar(&prelude, "prelude", false, "Source files use a prelude directive")
	_ = crawlCmd.MarkFlagRequired("input")
	_ = crawlCmd.MarkFlagRequired("lib")

	var (
		format   string
		outPath  string
		typeOnly bool
		noPrune  bool
	)
	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the dependency graph of a stored library and export it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(configPath, libName, format, outPath, typeOnly, noPrune)
		},
	}
	graphCmd.Flags().StringVar(&libName, "lib", "", "Library name")
	graphCmd.Flags().StringVar(&format, "format", "gexf", "Export format: dot, mermaid, json, gexf")
	graphCmd.Flags().StringVar(&outPath, "out", "", "Output file (stdout when empty)")
	graphCmd.Flags().BoolVar(&typeOnly, "type-only", false, "Edges from type dependencies only")
	graphCmd.Flags().BoolVar(&noPrune, "no-prune", false, "Skip the foundational-hub filter")
	_ = graphCmd.MarkFlagRequired("lib")

	componentCmd := &cobra.Command{
		Use:   "component <declaration>",
		Short: "Export everything needed to define one declaration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComponent(configPath, libName, args[0], format, outPath, typeOnly, noPrune)
		},
	}
	componentCmd.Flags().StringVar(&libName, "lib", "", "Library name")
	componentCmd.Flags().StringVar(&format, "format", "names", "Output format: names, dot, mermaid, json, gexf")
	componentCmd.Flags().StringVar(&outPath, "out", "", "Output file (stdout when empty)")
	componentCmd.Flags().BoolVar(&typeOnly, "type-only", false, "Edges from type dependencies only")
	componentCmd.Flags().BoolVar(&noPrune, "no-prune", false, "Skip the foundational-hub filter")
	_ = componentCmd.MarkFlagRequired("lib")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dependency graph statistics for a stored library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(configPath, libName, noPrune)
		},
	}
	statsCmd.Flags().StringVar(&libName, "lib", "", "Library name")
	statsCmd.Flags().BoolVar(&noPrune, "no-prune", false, "Skip the foundational-hub filter")
	_ = statsCmd.MarkFlagRequired("lib")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored libraries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(configPath)
		},
	}

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Store a library in Neo4j",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(configPath, libName)
		},
	}
	pushCmd.Flags().StringVar(&libName, "lib", "", "Library name")
	_ = pushCmd.MarkFlagRequired("lib")

	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Load a library from Neo4j into the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(configPath, libName)
		},
	}
	pullCmd.Flags().StringVar(&libName, "lib", "", "Library name")
	_ = pullCmd.MarkFlagRequired("lib")

	usersCmd := &cobra.Command{
		Use:   "users <declaration>",
		Short: "List declarations in Neo4j whose definition or proof uses the given one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsers(configPath, args[0])
		},
	}

	rootCmd.AddCommand(crawlCmd, graphCmd, componentCmd, statsCmd, listCmd, pushCmd, pullCmd, usersCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it is
// absent, and builds the logger the components share.
func loadConfig(path string) (*config.Config, *slog.Logger) {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config load failed (%v), using defaults\n", err)
		cfg = &config.Config{}
		cfg.Checker = config.CheckerConfig{Path: "lean", Args: []string{"-T500000"}, OnError: "fail"}
		cfg.Store.Dir = "libraries"
		cfg.Log.Level = "info"
	}
	return cfg, newLogger(cfg.Log)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func initTracing(ctx context.Context, cfg *config.Config) *observability.TracerProvider {
	tp, err := observability.InitTracing(ctx, &observability.TracingConfig{
		ServiceName:    "leangraph",
		ServiceVersion: "0.1.0",
		Environment:    "development",
		OTLPEndpoint:   cfg.Trace.OTLPEndpoint,
		SampleRate:     cfg.Trace.SampleRate,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tracing init failed (%v), continuing without\n", err)
		return nil
	}
	return tp
}

func runCrawl(configPath, inputPath, rootPath, libName string, prelude bool) error {
	cfg, log := loadConfig(configPath)
	ctx := context.Background()

	tp := initTracing(ctx, cfg)
	if tp != nil {
		defer tp.Shutdown(ctx)
	}

	files, err := leanFiles(inputPath)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .lean files under %s", inputPath)
	}
	if rootPath == "" {
		rootPath = filepath.Dir(files[0])
	}

	runner := checker.NewRunner(checker.Config{
		Path:    cfg.Checker.Path,
		Args:    cfg.Checker.Args,
		Timeout: cfg.Checker.Timeout,
		Policy:  checker.Policy(cfg.Checker.OnError),
	}, log)

	merged := decl.NewLibrary(libName)
	for _, path := range files {
		fileCtx, span := observability.StartCrawlSpan(ctx, path)
		res, err := runner.CrawlFile(fileCtx, path, rootPath, prelude)
		if err != nil {
			observability.RecordError(span, err)
			span.End()
			return fmt.Errorf("crawl %s: %w", path, err)
		}
		observability.RecordCrawlResult(span, res.Library.Len(), len(res.Imports), res.Lines)
		span.End()

		log.Info("crawled", "path", path, "declarations", res.Library.Len(), "lines", res.Lines)
		for _, name := range res.Library.Names() {
			merged.Put(res.Library.Decls[name])
		}
	}

	store, err := libstore.NewStore(cfg.Store.Dir)
	if err != nil {
		return err
	}
	if err := store.Save(merged); err != nil {
		return err
	}
	log.Info("library stored", "lib", libName, "declarations", merged.Len())
	return nil
}

func runGraph(configPath, libName, format, outPath string, typeOnly, noPrune bool) error {
	cfg, log := loadConfig(configPath)
	ctx := context.Background()

	tp := initTracing(ctx, cfg)
	if tp != nil {
		defer tp.Shutdown(ctx)
	}

	g, err := buildGraph(ctx, cfg, log, libName, typeOnly, noPrune)
	if err != nil {
		return err
	}
	return exportGraph(g, format, outPath)
}

func runComponent(configPath, libName, key, format, outPath string, typeOnly, noPrune bool) error {
	cfg, log := loadConfig(configPath)
	ctx := context.Background()

	tp := initTracing(ctx, cfg)
	if tp != nil {
		defer tp.Shutdown(ctx)
	}

	g, err := buildGraph(ctx, cfg, log, libName, typeOnly, noPrune)
	if err != nil {
		return err
	}

	_, span := observability.StartQuerySpan(ctx, key)
	sub, err := g.ComponentOf(key)
	observability.RecordError(span, err)
	span.End()
	if err != nil {
		return err
	}

	if format == "names" {
		out := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		for _, n := range sub.Nodes() {
			fmt.Fprintln(out, n.ID)
		}
		return nil
	}
	return exportGraph(sub, format, outPath)
}

func runStats(configPath, libName string, noPrune bool) error {
	cfg, log := loadConfig(configPath)
	ctx := context.Background()

	g, err := buildGraph(ctx, cfg, log, libName, false, noPrune)
	if err != nil {
		return err
	}
	fmt.Print(depgraph.FormatStats(g.ComputeStats()))
	return nil
}

func runList(configPath string) error {
	cfg, _ := loadConfig(configPath)
	store, err := libstore.NewStore(cfg.Store.Dir)
	if err != nil {
		return err
	}
	for _, summary := range store.List() {
		fmt.Printf("%-30s %6d declarations  %s\n",
			summary.Name, summary.Declarations, summary.SavedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runPush(configPath, libName string) error {
	cfg, log := loadConfig(configPath)
	ctx := context.Background()

	store, err := libstore.NewStore(cfg.Store.Dir)
	if err != nil {
		return err
	}
	lib, err := store.Load(libName)
	if err != nil {
		return err
	}

	repo, err := neo4j.NewNeo4j(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		return err
	}
	defer repo.Close(ctx)

	storeCtx, span := observability.StartStoreSpan(ctx, "push", libName)
	err = repo.StoreLibrary(storeCtx, lib)
	observability.RecordError(span, err)
	span.End()
	if err != nil {
		return err
	}
	log.Info("library pushed", "lib", libName, "declarations", lib.Len())
	return nil
}

func runPull(configPath, libName string) error {
	cfg, log := loadConfig(configPath)
	ctx := context.Background()

	repo, err := neo4j.NewNeo4j(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		return err
	}
	defer repo.Close(ctx)

	loadCtx, span := observability.StartStoreSpan(ctx, "pull", libName)
	lib, err := repo.LoadLibrary(loadCtx, libName)
	observability.RecordError(span, err)
	span.End()
	if err != nil {
		return err
	}

	store, err := libstore.NewStore(cfg.Store.Dir)
	if err != nil {
		return err
	}
	if err := store.Save(lib); err != nil {
		return err
	}
	log.Info("library pulled", "lib", libName, "declarations", lib.Len())
	return nil
}

func runUsers(configPath, name string) error {
	cfg, _ := loadConfig(configPath)
	ctx := context.Background()

	repo, err := neo4j.NewNeo4j(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		return err
	}
	defer repo.Close(ctx)

	queryCtx, span := observability.StartQuerySpan(ctx, name)
	users, err := repo.QueryUsers(queryCtx, name)
	observability.RecordError(span, err)
	span.End()
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Println(u)
	}
	return nil
}

func buildGraph(ctx context.Context, cfg *config.Config, log *slog.Logger, libName string, typeOnly, noPrune bool) (*depgraph.Graph, error) {
	store, err := libstore.NewStore(cfg.Store.Dir)
	if err != nil {
		return nil, err
	}
	lib, err := store.Load(libName)
	if err != nil {
		return nil, err
	}

	if !noPrune {
		rules := pruneRules(cfg.Prune)
		dropped := lib.PruneFoundational(rules)
		log.Debug("foundational declarations pruned", "lib", libName, "dropped", dropped)
	}

	_, span := observability.StartBuildSpan(ctx, libName, lib.Len())
	g := depgraph.Build(lib, depgraph.Options{TypeOnly: typeOnly})
	observability.RecordBuildResult(span, g.NodeCount(), g.EdgeCount())
	span.End()

	log.Info("graph built", "lib", libName, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

func pruneRules(cfg config.PruneConfig) decl.PruneRules {
	rules := decl.PruneRules{
		Names:          cfg.Names,
		PathSubstrings: cfg.PathSubstrings,
		NamePrefixes:   cfg.NamePrefixes,
	}
	if !cfg.SkipDefaults {
		rules.Names = append(append([]string{}, decl.FoundationalNames...), cfg.Names...)
	}
	return rules
}

func exportGraph(g *depgraph.Graph, format, outPath string) error {
	var data []byte
	var err error
	switch format {
	case "dot":
		data = []byte(depgraph.ExportDOT(g))
	case "mermaid":
		data = []byte(depgraph.ExportMermaid(g))
	case "json":
		data, err = depgraph.ExportJSON(g)
	case "gexf":
		data, err = depgraph.ExportGEXF(g)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

// leanFiles resolves the input path to the list of .lean files to crawl.
func leanFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".lean" {
			return nil
		}
		// Staged probe copies are not source files.
		if strings.HasPrefix(filepath.Base(p), "crawl-") || filepath.Base(p) == "deps.lean" {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
