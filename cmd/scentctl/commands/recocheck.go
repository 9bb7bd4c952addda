package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scent-llm/internal/catalog"
	"scent-llm/internal/db"
	"scent-llm/internal/reco"
	"scent-llm/internal/repository"
)

// Scenario es un caso conocido del scorer: qué ids deben salir y cuáles no.
type Scenario struct {
	Name   string
	Movie  *reco.MovieQuery
	Music  *reco.MusicQuery
	Want   []string
	Reject []string
}

var defaultScenarios = []Scenario{
	{
		Name: "스릴러 취향, 본 영화 제외",
		Movie: &reco.MovieQuery{
			PreferredGenres:  []string{"스릴러"},
			AnalyzedKeywords: []string{"반전", "긴장감", "사회비판"},
			ExcludeTitle:     "기생충",
		},
		Want:   []string{"get-out", "inception"},
		Reject: []string{"parasite"},
	},
	{
		Name: "로맨스와 상실의 기억",
		Movie: &reco.MovieQuery{
			PreferredGenres:  []string{"로맨스"},
			AnalyzedKeywords: []string{"기억", "이별", "상실"},
		},
		Want: []string{"eternal-sunshine", "inception"},
	},
	{
		Name:  "신호 없음은 풀 순서",
		Movie: &reco.MovieQuery{},
		Want:  []string{"parasite", "about-time"},
	},
	{
		Name: "잔잔한 피아노, 같은 곡 제외",
		Music: &reco.MusicQuery{
			PreferredGenres:  []string{"클래식"},
			AnalyzedKeywords: []string{"피아노", "밤", "잔잔함"},
			ExcludeTitle:     "Clair de Lune",
			ExcludeArtist:    "Claude Debussy",
		},
		Want:   []string{"norah-jones-dont-know-why"},
		Reject: []string{"debussy-clair-de-lune"},
	},
	{
		Name: "제목만 같은 다른 아티스트는 제외하지 않음",
		Music: &reco.MusicQuery{
			PreferredGenres:  []string{"클래식"},
			AnalyzedKeywords: []string{"피아노", "밤", "잔잔함"},
			ExcludeTitle:     "Clair de Lune",
			ExcludeArtist:    "Someone Else",
		},
		Want: []string{"debussy-clair-de-lune"},
	},
}

var recoFromDB bool

var recoCheckCmd = &cobra.Command{
	Use:   "reco-check",
	Short: "Run known scorer scenarios against the recommendation pools",
	Long: `reco-check runs a fixed list of scenarios through the pool scorer and
reports PASS/FAIL per scenario. With --from-db the pools are read from
Postgres instead of the embedded YAML.`,
	RunE: runRecoCheck,
}

func init() {
	recoCheckCmd.Flags().BoolVar(&recoFromDB, "from-db", false, "load pools from DATABASE_URL")
	rootCmd.AddCommand(recoCheckCmd)
}

func runRecoCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	cat, err := loadCatalog(ctx, recoFromDB)
	if err != nil {
		return err
	}

	passed := runScenarios(cmd.OutOrStdout(), cat, defaultScenarios)
	total := len(defaultScenarios)
	fmt.Fprintf(cmd.OutOrStdout(), "테스트: %d/%d 통과\n", passed, total)
	if passed != total {
		return fmt.Errorf("%d scenario(s) failed", total-passed)
	}
	return nil
}

func loadCatalog(ctx context.Context, fromDB bool) (*catalog.Catalog, error) {
	if !fromDB {
		return catalog.LoadEmbedded()
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db pool: %w", err)
	}
	defer pool.Close()

	cat, err := catalog.Load(ctx, repository.NewPgCatalogRepository(pool))
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("pools loaded from database", zap.Int("movies", len(cat.Movies)), zap.Int("music", len(cat.Music)))
	return cat, nil
}

// runScenarios imprime un bloque por escenario y devuelve cuántos pasaron.
func runScenarios(w io.Writer, cat *catalog.Catalog, scenarios []Scenario) int {
	passed := 0
	for _, sc := range scenarios {
		fmt.Fprintf(w, "=== 실행: %s ===\n", sc.Name)
		picked := pickIDs(cat, sc)
		fmt.Fprintf(w, "picks: %s\n", strings.Join(picked, ", "))
		if problem := checkPicks(picked, sc); problem != "" {
			fmt.Fprintf(w, "❌ FAIL [%s] %s\n\n", sc.Name, problem)
			continue
		}
		fmt.Fprintf(w, "✅ PASS [%s]\n\n", sc.Name)
		passed++
	}
	return passed
}

func pickIDs(cat *catalog.Catalog, sc Scenario) []string {
	var ids []string
	if sc.Movie != nil {
		for _, m := range reco.PickSimilarMovies(cat.Movies, *sc.Movie) {
			ids = append(ids, m.ID)
		}
	}
	if sc.Music != nil {
		for _, s := range reco.PickSimilarMusic(cat.Music, *sc.Music) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func checkPicks(picked []string, sc Scenario) string {
	for _, id := range sc.Want {
		if !slices.Contains(picked, id) {
			return fmt.Sprintf("expected %s in picks", id)
		}
	}
	for _, id := range sc.Reject {
		if slices.Contains(picked, id) {
			return fmt.Sprintf("%s must not be picked", id)
		}
	}
	return ""
}
