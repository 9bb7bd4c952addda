package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"scent-llm/internal/domain"
)

func doc(title, text, url string) domain.SearchResult {
	return domain.SearchResult{Title: title, URL: url, Text: text + strings.Repeat(" 영화 정보", 30)}
}

func TestSearchMovieDataQueriesAndDirectorFilter(t *testing.T) {
	next := &fakeSearcher{responses: map[string][]domain.SearchResult{
		"기생충 봉준호 감독 영화 정보 줄거리 개봉연도": {doc("a", "봉준호 작품", "u1"), doc("b", "다른 작품", "u2")},
		"기생충 봉준호 영화 리뷰 평점 관람객 반응":    {doc("c", "리뷰", "u3")},
	}}
	svc := NewService(next, zap.NewNop())

	data, err := svc.SearchMovieData(context.Background(), "기생충", "봉준호")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(next.queries) != 3 {
		t.Fatalf("expected 3 queries, got %v", next.queries)
	}
	if len(data.BasicInfo) != 1 || data.BasicInfo[0].URL != "u1" {
		t.Fatalf("expected director filter on basic info, got %+v", data.BasicInfo)
	}
	if len(data.Reviews) != 1 {
		t.Fatalf("expected reviews kept when filter leaves nothing, got %+v", data.Reviews)
	}
}

func TestSearchMovieDataWithoutDirector(t *testing.T) {
	next := &fakeSearcher{}
	svc := NewService(next, zap.NewNop())
	if _, err := svc.SearchMovieData(context.Background(), "그녀", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if next.queries[0] != "그녀 영화 정보 감독 출연진 줄거리" {
		t.Fatalf("unexpected basic query %q", next.queries[0])
	}
}

func TestSearchMovieDataAllQueriesFail(t *testing.T) {
	svc := NewService(&fakeSearcher{err: errors.New("boom")}, zap.NewNop())
	if _, err := svc.SearchMovieData(context.Background(), "x", ""); err == nil {
		t.Fatalf("expected error when every query fails")
	}
}

func TestSearchPropagatesMissingKey(t *testing.T) {
	svc := NewService(&fakeSearcher{err: ErrNotConfigured}, zap.NewNop())
	if _, err := svc.SearchMusicData(context.Background(), "밤편지", "아이유"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := svc.SearchSimilarMovies(context.Background(), "x", nil, ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSearchMusicData(t *testing.T) {
	var basic []domain.SearchResult
	for i := 0; i < 3; i++ {
		basic = append(basic, doc("곡", "노래", fmt.Sprintf("b%d", i)))
	}
	next := &fakeSearcher{responses: map[string][]domain.SearchResult{
		`"아이유" "밤편지" 곡 정보 앨범 발매일`:            basic,
		"아이유 밤편지 song information album release": basic,
		"아이유 밤편지 가사 lyrics":                      {doc("가사", "lyrics", "l1")},
		"아이유 아티스트 프로필 음악 스타일 디스코그래피":              {doc("아티스트", "프로필", "a1")},
	}}
	svc := NewService(next, zap.NewNop())

	data, err := svc.SearchMusicData(context.Background(), "밤편지", "아이유")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(data.BasicInfo) != 4 {
		t.Fatalf("expected basic info capped at 4, got %d", len(data.BasicInfo))
	}
	if len(data.Lyrics) != 1 || len(data.ArtistInfo) != 1 {
		t.Fatalf("unexpected sections %+v", data)
	}
	if len(next.queries) != 6 {
		t.Fatalf("expected 6 queries with artist, got %d: %v", len(next.queries), next.queries)
	}
}

func TestSearchMusicFromYouTube(t *testing.T) {
	next := &fakeSearcher{responses: map[string][]domain.SearchResult{
		"site:youtube.com https://youtu.be/x": {{Title: "아이유 - 밤편지", URL: "https://youtu.be/x"}},
	}}
	svc := NewService(next, zap.NewNop())

	if _, err := svc.SearchMusicFromYouTube(context.Background(), "https://youtu.be/x"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(next.queries[1], `"아이유" "밤편지"`) {
		t.Fatalf("expected music search with parsed artist, got %v", next.queries)
	}
}

func TestSearchSimilarMoviesFallbackAndDedupe(t *testing.T) {
	same := doc("추천", "목록", "dup")
	next := &fakeSearcher{responses: map[string][]domain.SearchResult{
		"기생충 봉준호 비슷한 영화 추천 드라마": {same},
		"드라마 영화 추천 명작 베스트":       {same, doc("봉준호 특집", "봉준호", "g1")},
		"영화 추천 명작 베스트 리스트":       {doc("일반", "목록", "x1")},
	}}
	svc := NewService(next, zap.NewNop())

	got, err := svc.SearchSimilarMovies(context.Background(), "기생충", []string{"드라마"}, "봉준호")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(next.queries) != 6 {
		t.Fatalf("expected title and genre stages only, got %d: %v", len(next.queries), next.queries)
	}
	if len(got) != 2 || got[0].URL != "g1" || got[1].URL != "dup" {
		t.Fatalf("expected director mention first and duplicates removed, got %+v", got)
	}
}

func TestSearchSimilarMusicCapsResults(t *testing.T) {
	var many []domain.SearchResult
	for i := 0; i < 20; i++ {
		many = append(many, doc("곡", "추천", fmt.Sprintf("m%d", i)))
	}
	next := &fakeSearcher{responses: map[string][]domain.SearchResult{
		"잔잔함 밤 음악 추천 비슷한 곡": many,
	}}
	svc := NewService(next, zap.NewNop())

	got, err := svc.SearchSimilarMusic(context.Background(), "밤편지", "아이유", "발라드", []string{"잔잔함", "밤"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != maxSimilarResults {
		t.Fatalf("expected %d results, got %d", maxSimilarResults, len(got))
	}
	if len(next.queries) != 4 {
		t.Fatalf("expected keyword stage only, got %v", next.queries)
	}
}
