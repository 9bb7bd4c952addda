package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"scent-llm/internal/catalog"
	"scent-llm/internal/domain"
	"scent-llm/internal/search"
)

const (
	SearchTypeMovie     = "movie"
	SearchTypeMusic     = "music"
	SearchTypeYouTube   = "youtube"
	SearchTypeFragrance = "fragrance"
	SearchTypeAll       = "all"

	SearchTypeSimilarMovies = "similarMovies"
	SearchTypeSimilarMusic  = "similarMusic"
)

var (
	ErrMissingQuery      = errors.New("search query is required")
	ErrMissingYoutubeURL = errors.New("youtube url is required")
	ErrUnsupportedSearch = errors.New("unsupported search type")
)

// SimilarSearcher busca contenido parecido en la web.
type SimilarSearcher interface {
	SearchSimilarMovies(ctx context.Context, title string, genres []string, director string) ([]domain.SearchResult, error)
	SearchSimilarMusic(ctx context.Context, title, artist, genre string, keywords []string) ([]domain.SearchResult, error)
}

// ContentBackend es todo lo que necesita /api/search-content.
type ContentBackend interface {
	ContentSearcher
	SimilarSearcher
}

var _ ContentBackend = (*search.Service)(nil)

// SearchContentRequest es el cuerpo (o query string) de /api/search-content.
// Genres y Keywords sólo aplican a las búsquedas de contenido similar.
type SearchContentRequest struct {
	Type       string   `json:"type" form:"type"`
	Query      string   `json:"query" form:"query"`
	YoutubeURL string   `json:"youtubeUrl" form:"youtubeUrl"`
	Artist     string   `json:"artist" form:"artist"`
	Director   string   `json:"director" form:"director"`
	Genres     []string `json:"genres" form:"genres"`
	Keywords   []string `json:"keywords" form:"keywords"`
}

// SearchContentResult sólo trae las secciones que se pidieron y respondieron.
type SearchContentResult struct {
	MovieData          *domain.MovieSearchData `json:"movieData,omitempty"`
	MusicData          *domain.MusicSearchData `json:"musicData,omitempty"`
	FragranceKnowledge []domain.SearchResult   `json:"fragranceKnowledge,omitempty"`
	LibraryInfo        *domain.LibraryContext  `json:"libraryInfo,omitempty"`
	SimilarMovies      []domain.SearchResult   `json:"similarMovies,omitempty"`
	SimilarMusic       []domain.SearchResult   `json:"similarMusic,omitempty"`
}

// ContentSearchService expone las búsquedas sueltas que usa la UI para previsualizar contenido.
type ContentSearchService struct {
	search  ContentBackend
	catalog *catalog.Catalog
	timeout time.Duration
	logger  *zap.Logger
}

func NewContentSearchService(searcher ContentBackend, cat *catalog.Catalog, timeout time.Duration, logger *zap.Logger) *ContentSearchService {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &ContentSearchService{search: searcher, catalog: cat, timeout: timeout, logger: logger}
}

// Search despacha según el tipo. "all" corre todo en paralelo y tolera fallas parciales.
func (s *ContentSearchService) Search(ctx context.Context, req SearchContentRequest) (*SearchContentResult, error) {
	query := strings.TrimSpace(req.Query)
	ytURL := strings.TrimSpace(req.YoutubeURL)
	artist := strings.TrimSpace(req.Artist)
	out := &SearchContentResult{}

	switch req.Type {
	case SearchTypeMovie:
		if query == "" {
			return nil, ErrMissingQuery
		}
		data, err := s.search.SearchMovieData(ctx, query, "")
		if err != nil {
			return nil, fmt.Errorf("movie search: %w", err)
		}
		out.MovieData = &data

	case SearchTypeMusic:
		if query == "" {
			return nil, ErrMissingQuery
		}
		data, err := s.search.SearchMusicData(ctx, query, artist)
		if err != nil {
			return nil, fmt.Errorf("music search: %w", err)
		}
		out.MusicData = &data

	case SearchTypeYouTube:
		if ytURL == "" {
			return nil, ErrMissingYoutubeURL
		}
		data, err := s.search.SearchMusicFromYouTube(ctx, ytURL)
		if err != nil {
			return nil, fmt.Errorf("youtube search: %w", err)
		}
		out.MusicData = &data

	case SearchTypeFragrance:
		res, err := s.search.SearchFragranceKnowledge(ctx)
		if err != nil {
			return nil, fmt.Errorf("fragrance search: %w", err)
		}
		out.FragranceKnowledge = res

	case SearchTypeSimilarMovies:
		if query == "" {
			return nil, ErrMissingQuery
		}
		res, err := s.search.SearchSimilarMovies(ctx, query, splitList(req.Genres), strings.TrimSpace(req.Director))
		if err != nil {
			return nil, fmt.Errorf("similar movies search: %w", err)
		}
		out.SimilarMovies = res

	case SearchTypeSimilarMusic:
		if query == "" {
			return nil, ErrMissingQuery
		}
		res, err := s.search.SearchSimilarMusic(ctx, query, artist, strings.Join(splitList(req.Genres), ", "), splitList(req.Keywords))
		if err != nil {
			return nil, fmt.Errorf("similar music search: %w", err)
		}
		out.SimilarMusic = res

	case SearchTypeAll:
		return s.searchAll(ctx, query, artist, ytURL)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSearch, req.Type)
	}
	return out, nil
}

func (s *ContentSearchService) searchAll(ctx context.Context, query, artist, ytURL string) (*SearchContentResult, error) {
	out := &SearchContentResult{}
	var fromTitle, fromVideo *domain.MusicSearchData
	var branches []branch

	if query != "" {
		branches = append(branches,
			branch{name: BranchMovieSearch, run: func(ctx context.Context) error {
				data, err := s.search.SearchMovieData(ctx, query, "")
				if err == nil {
					out.MovieData = &data
				}
				return err
			}},
			branch{name: BranchMusicSearch, run: func(ctx context.Context) error {
				data, err := s.search.SearchMusicData(ctx, query, artist)
				if err == nil {
					fromTitle = &data
				}
				return err
			}},
		)
	}
	if ytURL != "" {
		branches = append(branches, branch{name: "youtubeSearch", run: func(ctx context.Context) error {
			data, err := s.search.SearchMusicFromYouTube(ctx, ytURL)
			if err == nil {
				fromVideo = &data
			}
			return err
		}})
	}
	branches = append(branches,
		branch{name: BranchFragranceKnowledge, run: func(ctx context.Context) error {
			res, err := s.search.SearchFragranceKnowledge(ctx)
			if err == nil {
				out.FragranceKnowledge = res
			}
			return err
		}},
		branch{name: BranchLibraryInfo, run: func(ctx context.Context) error {
			if s.catalog == nil {
				return errors.New("catalog not loaded")
			}
			libs := s.catalog.Libraries
			out.LibraryInfo = &libs
			return nil
		}},
	)

	report := runBranches(ctx, s.timeout, s.logger, branches)
	for _, o := range report.Outcomes {
		if errors.Is(o.Err, search.ErrNotConfigured) {
			return nil, search.ErrNotConfigured
		}
	}

	// El video manda sobre la búsqueda por título.
	out.MusicData = fromTitle
	if fromVideo != nil {
		out.MusicData = fromVideo
	}
	return out, nil
}

// splitList acepta tanto listas como "a,b" en un solo valor (query string).
func splitList(in []string) []string {
	var out []string
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
