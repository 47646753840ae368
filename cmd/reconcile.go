package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"photo-gallery/core/config"
	"photo-gallery/core/database"
	"photo-gallery/core/logger"
	"photo-gallery/feature/gallery/catalog"
	"photo-gallery/feature/gallery/dirconfig"
	"photo-gallery/feature/gallery/reconcile"
	"photo-gallery/feature/gallery/variant"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reconcileCmd runs a single reconciliation pass from the command line,
// without starting the server. Useful after bulk-importing photos, and as a
// cron-friendly way to warm the catalog.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile [path]",
	Short: "Sync the photo catalog with the filesystem",
	Long: `Reconcile walks the photo directory tree rooted at the given gallery path
(default "/"), inserts new photos, removes records for deleted files, detects
moved or renamed files by content digest, and cleans the rendition cache.

Examples:
  # Reconcile the whole gallery
  photo-gallery reconcile

  # Reconcile a single subtree
  photo-gallery reconcile /travel/2023/`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}
		runReconcile(cmd.Context(), path)
	},
}

func runReconcile(ctx context.Context, path string) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logg.Fatal("Failed to connect to database", zap.Error(err))
	}
	store, err := catalog.NewStore(db, logg)
	if err != nil {
		logg.Fatal("Failed to open catalog", zap.Error(err))
	}

	resolver := dirconfig.NewResolver(cfg.Gallery, logg)
	cache := variant.NewCache(cfg.Gallery, logg)
	engine := reconcile.NewEngine(cfg.Gallery, resolver, store, cache, logg)
	if err := engine.EnsureDirs(); err != nil {
		logg.Fatal("Failed to prepare directories", zap.Error(err))
	}

	// The CLI runs with full visibility, no credentials involved.
	photos, err := engine.Reconcile(ctx, path, nil)
	if err != nil {
		logg.Error("Reconciliation failed", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Reconciled %q: %d photo(s) listed\n", path, len(photos))
}

func init() {
	RootCmd.AddCommand(reconcileCmd)
}
