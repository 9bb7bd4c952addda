package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scent-llm/internal/catalog"
	"scent-llm/internal/db"
	"scent-llm/internal/repository"
)

var seedDryRun bool

var seedCmd = &cobra.Command{
	Use:   "seed-catalog",
	Short: "Upsert the embedded recommendation pools into Postgres",
	Long: `seed-catalog creates the reco_movies / reco_music tables when missing and
upserts every item of the embedded pools. Pool order is stored as position,
which is what the scorer uses to break ties.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "print what would be written without touching the database")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	cat, err := catalog.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load embedded catalog: %w", err)
	}

	out := cmd.OutOrStdout()
	if seedDryRun {
		fmt.Fprintf(out, "dry-run: %d movies, %d songs\n", len(cat.Movies), len(cat.Music))
		return nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if errors.Is(err, db.ErrNoDatabase) {
		return errors.New("DATABASE_URL is not set")
	}
	if err != nil {
		return fmt.Errorf("db pool: %w", err)
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	repo := repository.NewPgCatalogRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if err := repo.UpsertMovies(ctx, cat.Movies); err != nil {
		return fmt.Errorf("upsert movies: %w", err)
	}
	if err := repo.UpsertMusic(ctx, cat.Music); err != nil {
		return fmt.Errorf("upsert music: %w", err)
	}

	logger.Info("catalog seeded", zap.Int("movies", len(cat.Movies)), zap.Int("music", len(cat.Music)))
	fmt.Fprintf(out, "✅ %d movies, %d songs upserted\n", len(cat.Movies), len(cat.Music))
	return nil
}
