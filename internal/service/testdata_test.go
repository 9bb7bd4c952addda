package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"scent-llm/internal/catalog"
	"scent-llm/internal/domain"
)

// validAnalysisJSON es una respuesta completa del modelo con algunos defectos a normalizar:
// radar fuera de rango, notas de la familia 우디 y ratios que no suman 2.0.
const validAnalysisJSON = `{
  "personalityAnalysis": {
    "corePersonality": "섬세한 관찰자",
    "emotionalDepth": "감정을 오래 곱씹는 편",
    "socialTendency": "소수와 깊은 관계",
    "aestheticPreference": "절제된 미니멀리즘",
    "lifestylePattern": "규칙적인 일상"
  },
  "movieAnalysis": {
    "title": "기생충",
    "genres": ["코미디"],
    "keywords": ["가족", "계급", "반전"],
    "psychologicalDriver": "사회 구조에 대한 호기심",
    "emotionalNeeds": "긴장과 해소",
    "cognitiveStyle": "분석적",
    "escapismPattern": "현실을 비틀어 보기"
  },
  "musicAnalysis": {
    "title": "밤편지",
    "artist": "아이유",
    "genre": "발라드",
    "keywords": ["밤", "잔잔함", "사랑"],
    "emotionalResonance": "잔잔한 위로",
    "memoryAssociation": "밤의 기억",
    "energyAlignment": "낮은 에너지",
    "identityExpression": "조용한 표현"
  },
  "fragranceRecommendations": [
    {
      "name": "Test Eau",
      "brand": "Maison Test",
      "fragranceFamily": "시트러스",
      "topNotes": [{"id": "wd-cypress", "name": "사이프러스"}, {"id": "ct-bergamot", "name": "베르가못"}],
      "middleNotes": [{"id": "wd-vetiver", "name": "베티버"}],
      "baseNotes": ["샌달우드", {"id": "vn-vanilla", "name": "바닐라"}],
      "personality": "차분함",
      "situation": "퇴근 후",
      "season": "가을",
      "reasonForRecommendation": "차분한 성향과 어울림",
      "psychologicalMatch": "안정감",
      "radarChart": {"softness": 12, "intensity": -3, "freshness": "7", "warmth": 6.6, "sweetness": 5, "woodiness": 4, "florality": 3, "spiciness": 2, "depth": 8, "uniqueness": 9},
      "recipe": {"components": [
        {"noteId": "wd-sandalwood", "name": "샌달우드", "ratio": 1},
        {"noteId": "ct-bergamot", "name": "베르가못", "ratio": 1},
        {"noteId": "vn-vanilla", "name": "바닐라", "ratio": 1}
      ], "totalGrams": 3}
    }
  ],
  "recommendedMovies": [
    {"title": "모델 추천 영화 1", "director": "감독1", "year": 2001, "genre": "드라마", "reason": "모델 이유", "poster": "🎬"},
    {"title": "모델 추천 영화 2", "director": "감독2", "year": "2002", "genre": "로맨스", "reason": "모델 이유", "poster": "🎬"}
  ],
  "recommendedSongs": [
    {"title": "모델 추천 곡 1", "artist": "가수1", "reason": "모델 이유", "emoji": "🎵"},
    {"title": "모델 추천 곡 2", "artist": "가수2", "reason": "모델 이유", "emoji": "🎵"}
  ],
  "lifestyleAdvice": {
    "dailyRoutine": "아침 산책",
    "socialInteraction": "천천히 다가가기",
    "personalGrowth": "기록하기",
    "fragranceUsage": "손목에 한 번"
  }
}`

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

// stubContentSearcher responde con datos fijos y registra qué se pidió.
type stubContentSearcher struct {
	mu sync.Mutex

	movie     domain.MovieSearchData
	movieErr  error
	music     domain.MusicSearchData
	musicErr  error
	fragrance []domain.SearchResult
	fragErr   error

	lookupArtist string
	lookupTitle  string
	lookupErr    error

	similar      []domain.SearchResult
	similarErr   error
	similarCalls []string

	musicQueries []string
}

var _ ContentBackend = (*stubContentSearcher)(nil)

func (s *stubContentSearcher) SearchMovieData(ctx context.Context, title, director string) (domain.MovieSearchData, error) {
	return s.movie, s.movieErr
}

func (s *stubContentSearcher) SearchMusicData(ctx context.Context, title, artist string) (domain.MusicSearchData, error) {
	s.mu.Lock()
	s.musicQueries = append(s.musicQueries, title+"|"+artist)
	s.mu.Unlock()
	return s.music, s.musicErr
}

func (s *stubContentSearcher) SearchMusicFromYouTube(ctx context.Context, url string) (domain.MusicSearchData, error) {
	if s.lookupErr != nil {
		return domain.MusicSearchData{}, s.lookupErr
	}
	return s.SearchMusicData(ctx, s.lookupTitle, s.lookupArtist)
}

func (s *stubContentSearcher) LookupYouTubeTitle(ctx context.Context, url string) (string, string, error) {
	return s.lookupArtist, s.lookupTitle, s.lookupErr
}

func (s *stubContentSearcher) SearchFragranceKnowledge(ctx context.Context) ([]domain.SearchResult, error) {
	return s.fragrance, s.fragErr
}

func (s *stubContentSearcher) SearchSimilarMovies(ctx context.Context, title string, genres []string, director string) ([]domain.SearchResult, error) {
	s.mu.Lock()
	s.similarCalls = append(s.similarCalls, "movies|"+title+"|"+strings.Join(genres, ",")+"|"+director)
	s.mu.Unlock()
	return s.similar, s.similarErr
}

func (s *stubContentSearcher) SearchSimilarMusic(ctx context.Context, title, artist, genre string, keywords []string) ([]domain.SearchResult, error) {
	s.mu.Lock()
	s.similarCalls = append(s.similarCalls, "music|"+title+"|"+artist+"|"+genre+"|"+strings.Join(keywords, ","))
	s.mu.Unlock()
	return s.similar, s.similarErr
}

func (s *stubContentSearcher) queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.musicQueries...)
}

type stubVideoResolver struct {
	info *domain.VideoInfo
	err  error
}

func (s *stubVideoResolver) VideoFromURL(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	return s.info, s.err
}

var errSearchDown = errors.New("search backend down")
