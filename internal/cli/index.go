package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rehci/encyclopedia/internal/logger"
	searchuc "github.com/rehci/encyclopedia/internal/usecase/search"
)

var rebuildFlag bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Provision the remote index and sync all articles into it",
	Long: `Index provisions the full-text index schema if it does not exist and
then pushes every article from the content directory, replacing the
indexed set completely. Entries for deleted articles are pruned.

Examples:
  encyclopediactl index            # Provision and sync
  encyclopediactl index --rebuild  # Drop the index first, then recreate`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&rebuildFlag, "rebuild", false, "drop and recreate the index before syncing")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := logger.WithContext(cmd.Context(), log)

	index, closeStore, err := newIndex()
	if err != nil {
		return err
	}
	defer closeStore()

	source := newSource()

	if rebuildFlag {
		fmt.Println("Dropping existing index...")
		if err := index.Drop(ctx); err != nil {
			return fmt.Errorf("drop failed: %w", err)
		}
	}

	svc := searchuc.New(source, index, log).
		WithSyncBatchSize(cfg.Index.SyncBatchSize)

	if err := svc.Provision(ctx); err != nil {
		return fmt.Errorf("provision failed: %w", err)
	}

	// Load once up front so the progress bar knows the total. Sync
	// re-reads the source; the content directory is cheap to walk.
	col, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}
	if col.Len() == 0 {
		fmt.Println("No articles found, index is now empty.")
	}

	bar := progressbar.NewOptions(col.Len(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Syncing"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	start := time.Now()
	n, err := svc.Sync(ctx, func(batch int) {
		_ = bar.Add(batch)
	})
	if err != nil {
		return fmt.Errorf("sync failed after %d articles: %w", n, err)
	}

	log.Info("index sync complete",
		zap.Int("articles", n),
		zap.Duration("took", time.Since(start)))
	fmt.Printf("Indexed %d articles in %s.\n", n, time.Since(start).Round(time.Millisecond))
	return nil
}
