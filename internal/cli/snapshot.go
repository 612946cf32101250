package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rehci/encyclopedia/internal/logger"
	snapshotuc "github.com/rehci/encyclopedia/internal/usecase/snapshot"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export the client snapshot JSON",
	Long: `Snapshot writes the article collection as a single JSON file for
clients that search locally in the browser. Bodies are truncated to a
preview; the file is published atomically so readers never see a
partial write.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "output path (default from config)")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := logger.WithContext(cmd.Context(), log)

	path := cfg.Snapshot.Path
	if snapshotOut != "" {
		path = snapshotOut
	}

	svc := snapshotuc.New(newSource(), path, cfg.Snapshot.PreviewLength)

	n, err := svc.Export(ctx)
	if err != nil {
		return fmt.Errorf("snapshot export failed: %w", err)
	}

	fmt.Printf("Wrote %d articles to %s.\n", n, path)
	return nil
}
