// Package cli implements the encyclopediactl maintenance commands:
// index provisioning and sync, snapshot export, and one-shot queries.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rehci/encyclopedia/internal/config"
	"github.com/rehci/encyclopedia/internal/db/redis"
	"github.com/rehci/encyclopedia/internal/logger"
	articlerepo "github.com/rehci/encyclopedia/internal/repository/article"
	indexrepo "github.com/rehci/encyclopedia/internal/repository/index"
	"github.com/rehci/encyclopedia/internal/version"
)

var (
	envFlag string
	cfg     config.Config
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "encyclopediactl",
	Short: "Maintenance commands for the encyclopedia search service",
	Long: `encyclopediactl manages the content pipeline behind the encyclopedia
search service: provisioning and syncing the external full-text index,
exporting the client snapshot, and running ad-hoc queries.

Example usage:
  encyclopediactl index              # Provision and sync the remote index
  encyclopediactl snapshot           # Export public/articles.json
  encyclopediactl search -q "bread"  # Run a query from the terminal`,
	Version: fmt.Sprintf("%s (%s, %s)", version.Version, version.Commit, version.Date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		cfg, err = config.Load(envFlag)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, err = logger.New(envFlag, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", config.GetEnv(), "config environment (local, dev, prod)")
}

// newSource creates the filesystem article repository from config.
func newSource() *articlerepo.Repo {
	return articlerepo.New(cfg.Content.Dir, cfg.Content.Includes, cfg.Content.Excludes)
}

// newIndex connects to Redis and creates the index repository. Returns
// an error when no database is configured; index commands require one.
func newIndex() (*indexrepo.Repo, func(), error) {
	if len(cfg.Database.Addrs) == 0 {
		return nil, nil, fmt.Errorf("no database.addrs configured; the remote index is disabled")
	}

	store, err := redis.NewStore(redis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	repo := indexrepo.New(store, cfg.Index.Name, cfg.Index.KeyPrefix, cfg.Index.MaxResults)
	return repo, func() { store.Close() }, nil
}
