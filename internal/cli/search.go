package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rehci/encyclopedia/internal/domain/search/filter"
	"github.com/rehci/encyclopedia/internal/logger"
	searchuc "github.com/rehci/encyclopedia/internal/usecase/search"
)

var (
	searchQuery    string
	searchCategory string
	searchTags     []string
	searchLocal    bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a one-shot query from the terminal",
	Long: `Search runs a single query against the configured backend and prints
the matching slugs in relevance order. With --local the remote index is
skipped and the query runs against the content directory directly.

Examples:
  encyclopediactl search -q "sourdough"
  encyclopediactl search -q intelligence --category Technology --tag AI --tag ML
  encyclopediactl search -q bread --local`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "restrict to one category (exact match)")
	searchCmd.Flags().StringArrayVar(&searchTags, "tag", nil, "restrict to articles with any of these tags (repeatable)")
	searchCmd.Flags().BoolVar(&searchLocal, "local", false, "skip the remote index")
	_ = searchCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := logger.WithContext(cmd.Context(), log)

	fs, err := filter.New(searchCategory, searchTags)
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	svc := searchuc.New(newSource(), nil, log)
	if !searchLocal && len(cfg.Database.Addrs) > 0 {
		index, closeStore, err := newIndex()
		if err != nil {
			return err
		}
		defer closeStore()
		svc = searchuc.New(newSource(), index, log).
			WithRemoteTimeout(cfg.Index.QueryTimeout())
	}

	articles, err := svc.Search(ctx, searchQuery, fs)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(articles) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for i, a := range articles {
		if i >= cfg.Index.MaxResults {
			break
		}
		line := a.Slug()
		if a.Category() != "" {
			line += "  (" + a.Category() + ")"
		}
		fmt.Printf("%2d. %s\n", i+1, line)
	}
	return nil
}
