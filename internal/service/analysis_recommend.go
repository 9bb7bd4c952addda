package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"scent-llm/internal/domain"
	"scent-llm/internal/metrics"
	"scent-llm/internal/reco"
	"scent-llm/internal/search"
)

// rerankFromPool reemplaza las recomendaciones del modelo por el top del pool
// cuando el pool alcanza para llenar el mínimo.
func (s *AnalysisService) rerankFromPool(res *domain.AnalysisResult, in domain.PreferenceInput, music musicRef) {
	excludeMovie := strings.TrimSpace(in.MovieTitle)
	if excludeMovie == "" {
		excludeMovie = res.MovieAnalysis.Title
	}
	movies := reco.PickSimilarMovies(s.catalog.Movies, reco.MovieQuery{
		PreferredGenres:  in.MovieGenres,
		AnalyzedGenres:   res.MovieAnalysis.Genres,
		AnalyzedKeywords: res.MovieAnalysis.Keywords,
		ExcludeTitle:     excludeMovie,
	})
	if len(movies) == 2 {
		out := make([]domain.RecommendedMovie, 0, len(movies))
		for _, m := range movies {
			out = append(out, reco.MovieToRecommendation(m))
		}
		res.RecommendedMovies = out
	}

	excludeTitle, excludeArtist := music.Title, music.Artist
	if excludeTitle == "" {
		excludeTitle, excludeArtist = res.MusicAnalysis.Title, res.MusicAnalysis.Artist
	}
	var musicGenres []string
	if g := strings.TrimSpace(res.MusicAnalysis.Genre); g != "" {
		musicGenres = strings.Split(g, ",")
	}
	songs := reco.PickSimilarMusic(s.catalog.Music, reco.MusicQuery{
		AnalyzedGenres:   musicGenres,
		AnalyzedKeywords: res.MusicAnalysis.Keywords,
		ExcludeTitle:     excludeTitle,
		ExcludeArtist:    excludeArtist,
	})
	if len(songs) == 2 {
		out := make([]domain.RecommendedSong, 0, len(songs))
		for _, m := range songs {
			out = append(out, reco.SongToRecommendation(m))
		}
		res.RecommendedSongs = out
	}
}

// correctMovieFacts pisa año y géneros con lo que dicen las fuentes web y completa la descripción vacía.
func correctMovieFacts(res *domain.AnalysisResult, in domain.PreferenceInput, data *domain.MovieSearchData) {
	if res.MovieAnalysis.Title == "" {
		res.MovieAnalysis.Title = strings.TrimSpace(in.MovieTitle)
	}
	if res.MovieAnalysis.Director == "" {
		res.MovieAnalysis.Director = strings.TrimSpace(in.MovieDirector)
	}
	if data == nil || data.Empty() {
		return
	}
	facts := search.ExtractMovieFacts(*data, in.MovieDirector)
	if facts.Year != "" {
		res.MovieAnalysis.Year = domain.FlexString(facts.Year)
	}
	if len(facts.Genres) > 0 {
		res.MovieAnalysis.Genres = facts.Genres
	}
	if strings.TrimSpace(res.MovieAnalysis.Description) == "" && facts.Description != "" {
		res.MovieAnalysis.Description = facts.Description
	}
}

// generateReasons pide al modelo un motivo corto por recomendación, una llamada a la vez.
// Si una llamada falla se conserva el motivo que ya tenía.
func (s *AnalysisService) generateReasons(ctx context.Context, logger *zap.Logger, res *domain.AnalysisResult, in domain.PreferenceInput) {
	for i := range res.RecommendedMovies {
		m := &res.RecommendedMovies[i]
		if reason, ok := s.askReason(ctx, logger, buildMovieReasonPrompt(*m, in.MovieGenres, res.MovieAnalysis.Keywords)); ok {
			m.Reason = reason
		}
	}
	for i := range res.RecommendedSongs {
		song := &res.RecommendedSongs[i]
		if reason, ok := s.askReason(ctx, logger, buildSongReasonPrompt(*song, res.MusicAnalysis.Genre, res.MusicAnalysis.Keywords)); ok {
			song.Reason = reason
		}
	}
}

func (s *AnalysisService) askReason(ctx context.Context, logger *zap.Logger, prompt string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	start := time.Now()
	raw, err := s.llmClient.Generate(ctx, prompt)
	metrics.RecordLLMCall("reason", time.Since(start), err)
	if err != nil {
		logger.Warn("reason generation failed", zap.Error(err))
		return "", false
	}
	reason := cleanReason(raw)
	if reason == "" {
		return "", false
	}
	return reason, true
}
