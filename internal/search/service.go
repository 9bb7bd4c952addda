package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"scent-llm/internal/domain"
	"scent-llm/internal/youtube"
)

const maxSimilarResults = 12

// query es una consulta del plan con su cuota de resultados y texto.
type query struct {
	text  string
	num   int
	chars int
}

// Service ejecuta los planes de consulta de películas, música y perfumería.
type Service struct {
	searcher Searcher
	logger   *zap.Logger
}

func NewService(searcher Searcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{searcher: searcher, logger: logger}
}

func (s *Service) run(ctx context.Context, q query) ([]domain.SearchResult, error) {
	resp, err := s.searcher.Search(ctx, &Request{Query: q.text, NumResults: q.num, MaxCharacters: q.chars})
	if err != nil {
		return nil, err
	}
	return formatResults(resp.Results), nil
}

// runAll ejecuta las consultas en orden y acumula resultados.
// Sólo devuelve error si fallaron todas, o si falta la API key.
func (s *Service) runAll(ctx context.Context, qs []query) ([]domain.SearchResult, error) {
	var (
		out  []domain.SearchResult
		errs []error
	)
	for _, q := range qs {
		res, err := s.run(ctx, q)
		if err != nil {
			if errors.Is(err, ErrNotConfigured) {
				return nil, err
			}
			s.logger.Warn("search query failed", zap.String("query", q.text), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		out = append(out, res...)
	}
	if len(errs) == len(qs) && len(qs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// SearchMovieData busca información básica, reseñas y análisis de una película.
func (s *Service) SearchMovieData(ctx context.Context, title, director string) (domain.MovieSearchData, error) {
	title = strings.TrimSpace(title)
	director = strings.TrimSpace(director)
	term := title
	if director != "" {
		term = title + " " + director
	}
	basicQuery := title + " 영화 정보 감독 출연진 줄거리"
	if director != "" {
		basicQuery = fmt.Sprintf("%s %s 감독 영화 정보 줄거리 개봉연도", title, director)
	}

	sections := [][]query{
		{{text: basicQuery, num: 3, chars: 2000}},
		{{text: term + " 영화 리뷰 평점 관람객 반응", num: 3, chars: 1500}},
		{{text: term + " 영화 분석 의미 상징 테마 해석", num: 2, chars: 2000}},
	}
	results, err := s.runSections(ctx, sections)
	if err != nil {
		return domain.MovieSearchData{}, fmt.Errorf("movie search %q: %w", title, err)
	}
	data := domain.MovieSearchData{
		BasicInfo: filterByMention(results[0], director),
		Reviews:   filterByMention(results[1], director),
		Analysis:  filterByMention(results[2], director),
	}
	s.logger.Debug("movie search done",
		zap.String("title", title),
		zap.Int("results", len(data.BasicInfo)+len(data.Reviews)+len(data.Analysis)),
	)
	return data, nil
}

// SearchMusicData busca ficha, letra, análisis y, con artista, su perfil.
func (s *Service) SearchMusicData(ctx context.Context, title, artist string) (domain.MusicSearchData, error) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	term := title
	if artist != "" {
		term = artist + " " + title
	}

	basic := []query{
		{text: fmt.Sprintf("%q %q 곡 정보 앨범 발매일", artist, title), num: 2, chars: 1500},
		{text: term + " song information album release", num: 2, chars: 1500},
		{text: term + " 음악 정보 장르", num: 2, chars: 1500},
	}
	if artist == "" {
		basic = basic[1:]
	}
	sections := [][]query{
		basic,
		{{text: term + " 가사 lyrics", num: 2, chars: 3000}},
		{{text: term + " 음악 분석 의미 해석 리뷰", num: 2, chars: 2000}},
	}
	if artist != "" {
		sections = append(sections, []query{{text: artist + " 아티스트 프로필 음악 스타일 디스코그래피", num: 2, chars: 1500}})
	}

	results, err := s.runSections(ctx, sections)
	if err != nil {
		return domain.MusicSearchData{}, fmt.Errorf("music search %q: %w", term, err)
	}
	data := domain.MusicSearchData{
		BasicInfo: results[0],
		Lyrics:    results[1],
		Analysis:  results[2],
	}
	if len(data.BasicInfo) > 4 {
		data.BasicInfo = data.BasicInfo[:4]
	}
	if len(results) > 3 {
		data.ArtistInfo = results[3]
	}
	return data, nil
}

// runSections ejecuta cada sección y falla sólo si no respondió ninguna.
func (s *Service) runSections(ctx context.Context, sections [][]query) ([][]domain.SearchResult, error) {
	out := make([][]domain.SearchResult, len(sections))
	var errs []error
	for i, qs := range sections {
		res, err := s.runAll(ctx, qs)
		if err != nil {
			if errors.Is(err, ErrNotConfigured) {
				return nil, err
			}
			errs = append(errs, err)
			continue
		}
		out[i] = res
	}
	if len(errs) == len(sections) {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// LookupYouTubeTitle busca el video en la web y separa artista y canción de su título.
func (s *Service) LookupYouTubeTitle(ctx context.Context, url string) (artist, title string, err error) {
	resp, err := s.searcher.Search(ctx, &Request{Query: "site:youtube.com " + url, NumResults: 1, MaxCharacters: 500})
	if err != nil {
		return "", "", fmt.Errorf("youtube lookup: %w", err)
	}
	if len(resp.Results) == 0 || strings.TrimSpace(resp.Results[0].Title) == "" {
		return "", "", fmt.Errorf("youtube lookup %s: %w", url, youtube.ErrVideoNotFound)
	}
	artist, title = youtube.ParseArtistAndTitle(resp.Results[0].Title)
	return artist, title, nil
}

// SearchMusicFromYouTube resuelve el título del video y corre la búsqueda de música.
func (s *Service) SearchMusicFromYouTube(ctx context.Context, url string) (domain.MusicSearchData, error) {
	artist, title, err := s.LookupYouTubeTitle(ctx, url)
	if err != nil {
		return domain.MusicSearchData{}, err
	}
	return s.SearchMusicData(ctx, title, artist)
}

// SearchFragranceKnowledge trae material general de perfumería.
func (s *Service) SearchFragranceKnowledge(ctx context.Context) ([]domain.SearchResult, error) {
	res, err := s.run(ctx, query{text: "향수 조향 기법 노트 조합 향료 특성 전문 지식", num: 3, chars: 2000})
	if err != nil {
		return nil, fmt.Errorf("fragrance knowledge: %w", err)
	}
	return res, nil
}

// SearchSimilarMovies corre un plan escalonado: título, después género, después genérico.
func (s *Service) SearchSimilarMovies(ctx context.Context, title string, genres []string, director string) ([]domain.SearchResult, error) {
	genreQuery := strings.Join(genres, " ")
	hint := ""
	if director = strings.TrimSpace(director); director != "" {
		hint = director + " "
	}

	stages := []struct {
		run func(n int) bool
		qs  []query
	}{
		{
			run: func(int) bool { return true },
			qs: []query{
				{text: fmt.Sprintf("%s %s비슷한 영화 추천 %s", title, hint, genreQuery), num: 3, chars: 1800},
				{text: fmt.Sprintf("%s %s같은 장르 영화 추천", title, hint), num: 3, chars: 1800},
				{text: fmt.Sprintf("%q %ssimilar movies recommendations", title, hint), num: 3, chars: 1800},
			},
		},
		{
			run: func(n int) bool { return n < 4 && len(genres) > 0 },
			qs: []query{
				{text: genreQuery + " 영화 추천 명작 베스트", num: 4, chars: 2000},
				{text: genreQuery + " 장르 영화 리스트 추천", num: 4, chars: 2000},
				{text: "best " + genreQuery + " movies recommendations", num: 4, chars: 2000},
			},
		},
		{
			run: func(n int) bool { return n < 3 },
			qs: []query{
				{text: "영화 추천 명작 베스트 리스트", num: 3, chars: 1500},
				{text: "좋은 영화 추천 평점 높은", num: 3, chars: 1500},
				{text: "movie recommendations best films", num: 3, chars: 1500},
			},
		},
	}

	var all []domain.SearchResult
	for _, st := range stages {
		if !st.run(len(all)) {
			continue
		}
		res, err := s.runAll(ctx, st.qs)
		if errors.Is(err, ErrNotConfigured) {
			return nil, err
		}
		all = append(all, res...)
	}

	if director != "" {
		needle := strings.ToLower(director)
		mentions := func(r domain.SearchResult) bool {
			return strings.Contains(strings.ToLower(r.Title+" "+r.Text), needle)
		}
		sort.SliceStable(all, func(i, j int) bool { return mentions(all[i]) && !mentions(all[j]) })
	}
	return dedupeByURL(all, maxSimilarResults), nil
}

// SearchSimilarMusic prioriza keywords, después género, el tema puntual y por último genérico.
func (s *Service) SearchSimilarMusic(ctx context.Context, title, artist, genre string, keywords []string) ([]domain.SearchResult, error) {
	genre = strings.TrimSpace(genre)
	kw := strings.Join(keywords, " ")
	genreSuffix := ""
	if genre != "" {
		genreSuffix = " " + genre
	}

	stages := []struct {
		run func(n int) bool
		qs  []query
	}{
		{
			run: func(int) bool { return len(keywords) > 0 },
			qs: []query{
				{text: kw + " 음악 추천 비슷한 곡", num: 4, chars: 1800},
				{text: kw + " 장르 노래 추천", num: 4, chars: 1800},
				{text: kw + " music recommendations similar songs", num: 4, chars: 1800},
				{text: kw + " 스타일 음악 리스트", num: 4, chars: 1800},
			},
		},
		{
			run: func(n int) bool { return n < 4 && genre != "" },
			qs: []query{
				{text: genre + " 음악 추천 베스트", num: 4, chars: 1800},
				{text: genre + " 장르 노래 추천 리스트", num: 4, chars: 1800},
				{text: "best " + genre + " songs recommendations", num: 4, chars: 1800},
			},
		},
		{
			run: func(n int) bool { return n < 3 },
			qs: []query{
				{text: fmt.Sprintf("%q 비슷한 음악 추천%s", title, genreSuffix), num: 3, chars: 1800},
				{text: title + " 같은 스타일 음악 추천", num: 3, chars: 1800},
				{text: "similar songs to " + title + " recommendations", num: 3, chars: 1800},
			},
		},
		{
			run: func(n int) bool { return n < 3 },
			qs: []query{
				{text: "음악 추천 베스트 명곡 리스트", num: 3, chars: 1500},
				{text: "좋은 노래 추천 인기 음악", num: 3, chars: 1500},
				{text: "popular music recommendations best songs", num: 3, chars: 1500},
			},
		},
	}

	var all []domain.SearchResult
	for _, st := range stages {
		if !st.run(len(all)) {
			continue
		}
		res, err := s.runAll(ctx, st.qs)
		if errors.Is(err, ErrNotConfigured) {
			return nil, err
		}
		all = append(all, res...)
	}
	s.logger.Debug("similar music search done", zap.String("title", title), zap.String("artist", artist), zap.Int("results", len(all)))
	return dedupeByURL(all, maxSimilarResults), nil
}

// dedupeByURL conserva la primera aparición de cada URL.
func dedupeByURL(results []domain.SearchResult, limit int) []domain.SearchResult {
	seen := make(map[string]bool, len(results))
	out := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}
