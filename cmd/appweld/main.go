package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"appweld/internal/config"
	"appweld/internal/generator"
	"appweld/internal/model"
	"appweld/internal/mutation"
	"appweld/internal/oracle"
	"appweld/internal/scanner"
	"appweld/internal/storage"
	"appweld/internal/verifier"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	rootCmd = &cobra.Command{
		Use:   "appweld",
		Short: "Platform integration tool for existing web apps",
	}
	dbPath     string
	configPath string
	verbose    bool

	outputDir   string
	addAuth     bool
	addDatabase bool
	addBranding bool
	appName     string
	appDesc     string
	appCategory string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "appweld.db", "Path to the local scan database (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	for _, cmd := range []*cobra.Command{generateCmd, integrateCmd} {
		cmd.Flags().BoolVar(&addAuth, "auth", false, "Wire the platform session layer")
		cmd.Flags().BoolVar(&addDatabase, "database", false, "Wire the platform database layer")
		cmd.Flags().BoolVar(&addBranding, "branding", false, "Add platform branding assets")
		cmd.Flags().StringVar(&appName, "name", "", "Display name for the embedded app")
		cmd.Flags().StringVar(&appDesc, "description", "", "Short description for the embedded app")
		cmd.Flags().StringVar(&appCategory, "category", "", "Marketplace category for the embedded app")
	}
	generateCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory for generated artifacts (default <app>-integration)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(integrateCmd)
	rootCmd.AddCommand(verifyCmd)
}

// initRuntime loads the config, configures the global logger, and opens the
// store. Config values fill in anything the flags left unset.
func initRuntime() (*config.Config, *storage.SQLiteStore, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	configureLogger(cfg)

	if cfg.Project.StorePath != "" && !rootCmd.PersistentFlags().Changed("db") {
		dbPath = cfg.Project.StorePath
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, store, nil
}

// configureLogger sets the global slog logger to a rotating file handler so
// CLI output stays clean while the packages log details.
func configureLogger(cfg *config.Config) {
	logWriter := &lumberjack.Logger{
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}

	logLevel := slog.LevelInfo
	if verbose || cfg.Log.Verbose {
		logLevel = slog.LevelDebug
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func resolveAppRoot(cfg *config.Config, args []string) (string, error) {
	path := cfg.Project.Root
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = "."
	}
	return filepath.Abs(path)
}

// preferences merges command flags over the config file's integration block.
func preferences(cfg *config.Config, cmd *cobra.Command) generator.Preferences {
	prefs := generator.Preferences{
		AddAuth:     cfg.Integration.AddAuth,
		AddDatabase: cfg.Integration.AddDatabase,
		AddBranding: cfg.Integration.AddBranding,
		AppName:     cfg.Integration.AppName,
		Description: cfg.Integration.Description,
		Category:    cfg.Integration.Category,
	}
	if cmd.Flags().Changed("auth") {
		prefs.AddAuth = addAuth
	}
	if cmd.Flags().Changed("database") {
		prefs.AddDatabase = addDatabase
	}
	if cmd.Flags().Changed("branding") {
		prefs.AddBranding = addBranding
	}
	if appName != "" {
		prefs.AppName = appName
	}
	if appDesc != "" {
		prefs.Description = appDesc
	}
	if appCategory != "" {
		prefs.Category = appCategory
	}
	return prefs
}

// loadModel returns the latest scan for the app root, or scans on the spot
// when none is stored yet.
func loadModel(ctx context.Context, store *storage.SQLiteStore, appRoot string) (*model.AppModel, error) {
	m, err := store.LatestModel(ctx, appRoot)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNoModel) {
		return nil, err
	}

	fmt.Println("📂 No stored scan found, scanning now...")
	m, err = scanner.New(slog.Default()).Scan(appRoot)
	if err != nil {
		return nil, err
	}
	if err := store.SaveModel(ctx, appRoot, m); err != nil {
		return nil, err
	}
	return m, nil
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan an app tree and store its model locally",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer store.Close()

		appRoot, err := resolveAppRoot(cfg, args)
		if err != nil {
			log.Fatalf("Failed to resolve app path: %v", err)
		}

		fmt.Printf("📂 Scanning app: %s\n", appRoot)

		m, err := scanner.New(slog.Default()).Scan(appRoot)
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}

		fmt.Printf("✅ Detected %s %s app\n", m.Framework, m.AppType)
		fmt.Printf("  -> %d API routes\n", len(m.APIRoutes))
		fmt.Printf("  -> %d data models\n", len(m.Models))
		fmt.Printf("  -> %d components\n", len(m.Components))
		fmt.Printf("  -> %d integration points\n", len(m.IntegrationPoints))
		if m.HasAuth {
			fmt.Println("  -> existing auth detected")
		}
		if m.HasDatabase {
			fmt.Println("  -> existing database detected")
		}

		fmt.Println("💾 Saving to local database...")
		if err := store.SaveModel(context.Background(), appRoot, m); err != nil {
			log.Fatalf("Failed to save scan: %v", err)
		}

		fmt.Printf("🎉 Scan complete! Database: %s\n", dbPath)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate platform integration artifacts next to the app",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, store, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer store.Close()

		appRoot, err := resolveAppRoot(cfg, args)
		if err != nil {
			log.Fatalf("Failed to resolve app path: %v", err)
		}

		m, err := loadModel(ctx, store, appRoot)
		if err != nil {
			log.Fatalf("Failed to load app model: %v", err)
		}

		out := outputDir
		if out == "" {
			out = cfg.Project.OutputDir
		}
		if out == "" {
			out = appRoot + "-integration"
		}
		out, err = filepath.Abs(out)
		if err != nil {
			log.Fatalf("Failed to resolve output path: %v", err)
		}

		prefs := preferences(cfg, cmd)

		fmt.Printf("🛠️  Generating integration artifacts for %s app...\n", m.Framework)

		files, err := generator.New(appRoot, out, slog.Default()).Generate(m, prefs)
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}

		for _, f := range files {
			fmt.Printf("  + %s (%s)\n", f.Path, f.Description)
		}

		fmt.Println("🔍 Verifying artifacts...")
		report := verifier.New(slog.Default()).Verify(out, files)
		printVerifyReport(report)

		rec := storage.RunRecord{
			Mode:      "generate",
			AppRoot:   appRoot,
			OutputDir: out,
			Total:     report.Total,
			Failed:    report.Failed,
			Files:     files,
		}
		if err := store.SaveRun(ctx, rec); err != nil {
			log.Fatalf("Failed to save run: %v", err)
		}

		if report.Failed > 0 {
			log.Fatalf("Generation produced %d failing checks", report.Failed)
		}
		fmt.Printf("🎉 Generated %d artifacts in %s\n", len(files), out)
	},
}

var integrateCmd = &cobra.Command{
	Use:   "integrate [path]",
	Short: "Apply AI-planned integration edits directly to the app tree",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, store, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer store.Close()

		if cfg.AI.APIKey == "" {
			log.Fatalf("AI API key not configured (set APPWELD_API_KEY or ai.api_key)")
		}

		appRoot, err := resolveAppRoot(cfg, args)
		if err != nil {
			log.Fatalf("Failed to resolve app path: %v", err)
		}

		m, err := loadModel(ctx, store, appRoot)
		if err != nil {
			log.Fatalf("Failed to load app model: %v", err)
		}

		o, err := oracle.New(ctx, oracle.Options{
			Provider: cfg.AI.Provider,
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
			BaseURL:  cfg.AI.BaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to create oracle: %v", err)
		}

		fmt.Printf("🧠 Planning integration edits for %s app...\n", m.Framework)

		report, err := mutation.New(o, slog.Default()).Mutate(ctx, appRoot, m, preferences(cfg, cmd))
		if err != nil {
			if errors.Is(err, mutation.ErrBusy) {
				log.Fatalf("Another integration run is in progress for %s", appRoot)
			}
			log.Fatalf("Integration failed: %v", err)
		}

		failed := 0
		for _, ch := range report.Changes {
			if ch.Success {
				fmt.Printf("  ✅ %s\n", ch.File)
			} else {
				failed++
				fmt.Printf("  ❌ %s: %s\n", ch.File, ch.Error)
			}
		}

		rec := storage.RunRecord{
			Mode:    "integrate",
			AppRoot: appRoot,
			Total:   len(report.Changes),
			Failed:  failed,
		}
		if err := store.SaveRun(ctx, rec); err != nil {
			log.Fatalf("Failed to save run: %v", err)
		}

		if failed > 0 {
			log.Fatalf("%d of %d files failed; originals kept as .bak", failed, len(report.Changes))
		}
		fmt.Printf("🎉 Applied %d edits. Originals backed up as .bak\n", len(report.Changes))
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [path]",
	Short: "Re-verify the artifacts of the latest generation run",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, store, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer store.Close()

		appRoot, err := resolveAppRoot(cfg, args)
		if err != nil {
			log.Fatalf("Failed to resolve app path: %v", err)
		}

		rec, err := store.LatestGeneration(ctx, appRoot)
		if err != nil {
			if errors.Is(err, storage.ErrNoGeneration) {
				log.Fatalf("No generation run found for %s; run 'appweld generate' first", appRoot)
			}
			log.Fatalf("Failed to load generation run: %v", err)
		}

		fmt.Printf("🔍 Verifying %d artifacts in %s\n", len(rec.Files), rec.OutputDir)

		report := verifier.New(slog.Default()).Verify(rec.OutputDir, rec.Files)
		printVerifyReport(report)

		if err := store.SaveRun(ctx, storage.RunRecord{
			Mode:      "verify",
			AppRoot:   appRoot,
			OutputDir: rec.OutputDir,
			Total:     report.Total,
			Failed:    report.Failed,
		}); err != nil {
			log.Fatalf("Failed to save run: %v", err)
		}

		if report.Failed > 0 {
			os.Exit(1)
		}
	},
}

func printVerifyReport(report *verifier.Report) {
	fmt.Printf("📊 Checks: %d passed, %d failed (of %d)\n", report.Passed, report.Failed, report.Total)
	for _, msg := range report.Errors {
		fmt.Printf("  ❌ %s\n", msg)
	}
	if report.Failed == 0 {
		fmt.Println("✅ All checks passed")
	}
}
