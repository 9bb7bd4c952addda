package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scent-llm/internal/catalog"
	"scent-llm/internal/domain"
	"scent-llm/internal/llm"
	"scent-llm/internal/metrics"
	"scent-llm/internal/search"
)

const (
	BranchMovieSearch        = "movieSearch"
	BranchMusicSearch        = "musicSearch"
	BranchFragranceKnowledge = "fragranceKnowledge"
	BranchLibraryInfo        = "libraryInfo"
)

// ContentSearcher es la parte del servicio de búsqueda que usa el análisis.
type ContentSearcher interface {
	SearchMovieData(ctx context.Context, title, director string) (domain.MovieSearchData, error)
	SearchMusicData(ctx context.Context, title, artist string) (domain.MusicSearchData, error)
	SearchMusicFromYouTube(ctx context.Context, url string) (domain.MusicSearchData, error)
	LookupYouTubeTitle(ctx context.Context, url string) (artist, title string, err error)
	SearchFragranceKnowledge(ctx context.Context) ([]domain.SearchResult, error)
}

var _ ContentSearcher = (*search.Service)(nil)

// VideoResolver resuelve metadata de un video de YouTube.
type VideoResolver interface {
	VideoFromURL(ctx context.Context, rawURL string) (*domain.VideoInfo, error)
}

// AnalysisOptions son los flags de post-proceso y el timeout por rama.
type AnalysisOptions struct {
	BranchTimeout   time.Duration
	UsePool         bool
	GenerateReasons bool
}

// AnalysisService corre el pipeline completo: búsquedas, prompt, modelo, parseo y post-proceso.
type AnalysisService struct {
	llmClient llm.LLMClient
	search    ContentSearcher
	videos    VideoResolver
	catalog   *catalog.Catalog
	opts      AnalysisOptions
	logger    *zap.Logger
}

func NewAnalysisService(
	llmClient llm.LLMClient,
	searcher ContentSearcher,
	videos VideoResolver,
	cat *catalog.Catalog,
	opts AnalysisOptions,
	logger *zap.Logger,
) *AnalysisService {
	if opts.BranchTimeout <= 0 {
		opts.BranchTimeout = 8 * time.Second
	}
	return &AnalysisService{
		llmClient: llmClient,
		search:    searcher,
		videos:    videos,
		catalog:   cat,
		opts:      opts,
		logger:    logger,
	}
}

// AnalysisOutput es lo que devuelve un análisis exitoso.
type AnalysisOutput struct {
	ID       string
	Analysis domain.AnalysisResult
	Degraded []string
}

// musicRef es la canción efectiva del usuario, escrita o resuelta desde YouTube.
type musicRef struct {
	Title  string
	Artist string
}

// gathered junta lo que devolvieron las ramas; cada rama escribe sólo su campo.
type gathered struct {
	movie     *domain.MovieSearchData
	music     *domain.MusicSearchData
	fragrance []domain.SearchResult
	libraries *domain.LibraryContext
	musicRef  musicRef
}

// Analyze ejecuta el análisis de preferencias de punta a punta.
func (s *AnalysisService) Analyze(ctx context.Context, in domain.PreferenceInput) (*AnalysisOutput, error) {
	if overlap := in.OverlappingFragrances(); len(overlap) > 0 {
		return nil, fmt.Errorf("%w: liked and disliked families overlap (%s)", ErrInvalidPreferences, strings.Join(overlap, ", "))
	}
	if !s.llmConfigured() {
		metrics.RecordAnalysisResult("not_configured")
		return nil, ErrLLMNotConfigured
	}

	begin := time.Now()
	id := uuid.NewString()
	logger := s.logger.With(zap.String("analysis_id", id))

	g, report := s.gather(ctx, in, logger)
	if degraded := report.Degraded(); len(degraded) > 0 {
		logger.Info("analysis running with degraded branches", zap.Strings("degraded", degraded))
	}

	prompt := buildAnalysisPrompt(in, g.musicRef, s.promptContext(g))

	start := time.Now()
	raw, err := s.llmClient.Generate(ctx, prompt)
	metrics.RecordLLMCall("analysis", time.Since(start), err)
	if err != nil {
		metrics.RecordAnalysisResult("llm_error")
		if errors.Is(err, llm.ErrNotConfigured) {
			return nil, ErrLLMNotConfigured
		}
		return nil, fmt.Errorf("llm generate: %w", err)
	}

	res, err := DecodeAnalysis(raw)
	if err != nil {
		if errors.Is(err, ErrInvalidResponse) {
			metrics.RecordAnalysisResult("invalid")
			logger.Warn("model response is missing fields", zap.Error(err))
			return nil, err
		}
		metrics.RecordAnalysisResult("unparseable")
		logger.Warn("model response is not valid json", zap.Error(err), zap.Int("raw_len", len(raw)))
		return nil, err
	}

	s.postProcess(logger, &res, in, g)

	if err := ValidateAnalysis(&res); err != nil {
		metrics.RecordAnalysisResult("invalid")
		var rerr *ResponseError
		if errors.As(err, &rerr) {
			logger.Warn("model response failed validation", zap.String("fields", rerr.Debug))
		}
		return nil, err
	}

	if s.opts.GenerateReasons {
		s.guard(logger, "reasons", &res, func(r *domain.AnalysisResult) {
			s.generateReasons(ctx, logger, r, in)
		})
	}

	metrics.RecordAnalysisResult("success")
	logger.Info("analysis completed",
		zap.Int("fragrances", len(res.FragranceRecommendations)),
		zap.Duration("duration", time.Since(begin)),
	)
	return &AnalysisOutput{ID: id, Analysis: res, Degraded: report.Degraded()}, nil
}

func (s *AnalysisService) llmConfigured() bool {
	if s.llmClient == nil {
		return false
	}
	if c, ok := s.llmClient.(interface{ Configured() bool }); ok {
		return c.Configured()
	}
	return true
}

// gather corre las ramas de búsqueda. Ninguna falla hace fallar el análisis.
func (s *AnalysisService) gather(ctx context.Context, in domain.PreferenceInput, logger *zap.Logger) (*gathered, *BranchReport) {
	g := &gathered{musicRef: musicRef{Title: in.EffectiveMusicTitle(), Artist: in.EffectiveMusicArtist()}}
	var branches []branch

	if title := strings.TrimSpace(in.MovieTitle); title != "" && s.search != nil {
		branches = append(branches, branch{name: BranchMovieSearch, run: func(ctx context.Context) error {
			data, err := s.search.SearchMovieData(ctx, title, in.MovieDirector)
			if err != nil {
				return err
			}
			g.movie = &data
			return nil
		}})
	}

	ytURL := in.YoutubeURL()
	if (g.musicRef.Title != "" || ytURL != "") && s.search != nil {
		branches = append(branches, branch{name: BranchMusicSearch, run: func(ctx context.Context) error {
			ref := g.musicRef
			if ref.Title == "" {
				resolved, err := s.resolveVideo(ctx, ytURL)
				if err != nil {
					return fmt.Errorf("resolve youtube title: %w", err)
				}
				ref = resolved
				g.musicRef = ref
			}
			data, err := s.search.SearchMusicData(ctx, ref.Title, ref.Artist)
			if err != nil {
				return err
			}
			g.music = &data
			return nil
		}})
	}

	if s.search != nil {
		branches = append(branches, branch{name: BranchFragranceKnowledge, run: func(ctx context.Context) error {
			res, err := s.search.SearchFragranceKnowledge(ctx)
			if err != nil {
				return err
			}
			g.fragrance = res
			return nil
		}})
	}

	branches = append(branches, branch{name: BranchLibraryInfo, run: func(ctx context.Context) error {
		if s.catalog == nil {
			return errors.New("catalog not loaded")
		}
		libs := s.catalog.Libraries
		g.libraries = &libs
		return nil
	}})

	return g, runBranches(ctx, s.opts.BranchTimeout, logger, branches)
}

// resolveVideo intenta la API de YouTube y, si no está o falla, la búsqueda web del título.
func (s *AnalysisService) resolveVideo(ctx context.Context, url string) (musicRef, error) {
	var apiErr error
	if s.videos != nil {
		info, err := s.videos.VideoFromURL(ctx, url)
		if err == nil && strings.TrimSpace(info.Title) != "" {
			return musicRef{Title: info.Title, Artist: info.Artist}, nil
		}
		apiErr = err
	}
	if s.search == nil {
		return musicRef{}, errors.Join(apiErr, search.ErrNotConfigured)
	}
	artist, title, err := s.search.LookupYouTubeTitle(ctx, url)
	if err != nil {
		return musicRef{}, errors.Join(apiErr, err)
	}
	return musicRef{Title: title, Artist: artist}, nil
}

func (s *AnalysisService) promptContext(g *gathered) promptContext {
	var pc promptContext
	if g.movie != nil || g.music != nil || len(g.fragrance) > 0 {
		pc.SearchContext = search.FormatSearchDataForAI(g.movie, g.music, g.fragrance)
	}
	if g.libraries != nil {
		pc.LibraryContext = search.FormatLibraryInfoForAI(*g.libraries)
	}
	if s.catalog != nil && s.catalog.Flavors != nil {
		pc.FlavorTable = s.catalog.Flavors.PromptTable()
	}
	return pc
}

// postProcess normaliza la respuesta antes de validarla. Cada paso es independiente.
func (s *AnalysisService) postProcess(logger *zap.Logger, res *domain.AnalysisResult, in domain.PreferenceInput, g *gathered) {
	s.guard(logger, "radar", res, func(r *domain.AnalysisResult) {
		for i := range r.FragranceRecommendations {
			normalizeRadar(&r.FragranceRecommendations[i].RadarChart)
		}
	})

	if s.catalog != nil && s.catalog.Flavors != nil {
		s.guard(logger, "notes", res, func(r *domain.AnalysisResult) {
			filter := newNoteFilter(s.catalog.Flavors, in.LikedFragrances, in.DislikedFragrances)
			changed := 0
			for i := range r.FragranceRecommendations {
				changed += filter.apply(&r.FragranceRecommendations[i])
			}
			if changed > 0 {
				logger.Info("notes replaced or dropped", zap.Int("count", changed))
			}
		})
	}

	s.guard(logger, "recipe", res, func(r *domain.AnalysisResult) {
		for i := range r.FragranceRecommendations {
			normalizeRecipe(&r.FragranceRecommendations[i].Recipe)
		}
	})

	if s.opts.UsePool && s.catalog != nil {
		s.guard(logger, "pool", res, func(r *domain.AnalysisResult) {
			s.rerankFromPool(r, in, g.musicRef)
		})
	}

	s.guard(logger, "facts", res, func(r *domain.AnalysisResult) {
		correctMovieFacts(r, in, g.movie)
	})
}

// guard aplica fn sobre una copia; si entra en pánico el resultado queda como estaba.
func (s *AnalysisService) guard(logger *zap.Logger, step string, res *domain.AnalysisResult, fn func(r *domain.AnalysisResult)) {
	work, err := cloneAnalysis(res)
	if err != nil {
		logger.Warn("post-processing skipped", zap.String("step", step), zap.Error(err))
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("post-processing step failed", zap.String("step", step), zap.Any("panic", r))
		}
	}()
	fn(work)
	*res = *work
}

func cloneAnalysis(res *domain.AnalysisResult) (*domain.AnalysisResult, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	var out domain.AnalysisResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
