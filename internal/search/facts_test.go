package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"scent-llm/internal/domain"
)

func TestExtractMovieFactsEmptyInput(t *testing.T) {
	facts := ExtractMovieFacts(domain.MovieSearchData{}, "")
	if facts.Year != "" || facts.Genres != nil || facts.Description != "" {
		t.Fatalf("expected empty facts, got %+v", facts)
	}
}

func TestExtractMovieFactsNoYear(t *testing.T) {
	data := domain.MovieSearchData{BasicInfo: []domain.SearchResult{
		{Title: "기생충 정보", Text: "봉준호 감독의 드라마 영화. 연도 정보 없음, 1234명 관람, 가격 20000원"},
	}}
	facts := ExtractMovieFacts(data, "")
	if facts.Year != "" {
		t.Fatalf("expected no year, got %q", facts.Year)
	}
}

func TestExtractMovieFactsYearScoring(t *testing.T) {
	data := domain.MovieSearchData{
		BasicInfo: []domain.SearchResult{
			{Title: "기생충", Text: "2019년 5월 개봉한 봉준호 감독의 작품."},
		},
		Reviews: []domain.SearchResult{
			{Title: "리뷰", Text: "2020년에 다시 봤다"},
		},
	}
	facts := ExtractMovieFacts(data, "봉준호")
	if facts.Year != "2019" {
		t.Fatalf("expected 2019, got %q", facts.Year)
	}
}

func TestExtractMovieFactsYearTieBreak(t *testing.T) {
	t.Run("more occurrences wins", func(t *testing.T) {
		// 2001: dos apariciones (1+1); 2010: una aparición con publishedDate (1+1).
		data := domain.MovieSearchData{BasicInfo: []domain.SearchResult{
			{Title: "a", Text: "2001 ... lorem ipsum dolor sit amet consectetur adipiscing elit 2001", PublishedDate: ""},
			{Title: "b", Text: "2010", PublishedDate: "2010-01-01T00:00:00Z"},
		}}
		if got := ExtractMovieFacts(data, "").Year; got != "2001" {
			t.Fatalf("expected 2001, got %q", got)
		}
	})

	t.Run("most recent wins", func(t *testing.T) {
		data := domain.MovieSearchData{BasicInfo: []domain.SearchResult{
			{Title: "a", Text: "1999"},
			{Title: "b", Text: "2003"},
		}}
		if got := ExtractMovieFacts(data, "").Year; got != "2003" {
			t.Fatalf("expected 2003, got %q", got)
		}
	})
}

func TestExtractMovieFactsIgnoresLongerNumbers(t *testing.T) {
	data := domain.MovieSearchData{BasicInfo: []domain.SearchResult{
		{Title: "x", Text: "관객 수 120195명, 코드 20191"},
	}}
	if got := ExtractMovieFacts(data, "").Year; got != "" {
		t.Fatalf("expected no year from longer numbers, got %q", got)
	}
}

func TestExtractMovieFactsGenres(t *testing.T) {
	data := domain.MovieSearchData{BasicInfo: []domain.SearchResult{
		{Title: "Review", Text: "A dark THRILLER with a strong emotional reaction. Part crime story, part Drama."},
	}}
	facts := ExtractMovieFacts(data, "")
	want := []string{"스릴러", "범죄", "드라마"}
	if strings.Join(facts.Genres, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, facts.Genres)
	}
	for _, g := range facts.Genres {
		if g == "액션" {
			t.Fatalf("expected reaction not to yield 액션")
		}
	}
}

func TestExtractMovieFactsGenresKoreanBoundary(t *testing.T) {
	data := domain.MovieSearchData{BasicInfo: []domain.SearchResult{
		{Title: "정보", Text: "장르: 로맨스, 코미디. 드라마틱한 전개"},
	}}
	facts := ExtractMovieFacts(data, "")
	if strings.Join(facts.Genres, ",") != "로맨스,코미디" {
		t.Fatalf("expected [로맨스 코미디], got %v", facts.Genres)
	}
}

func TestExtractMovieFactsSynopsisAnchor(t *testing.T) {
	plot := strings.Repeat("반지하에 사는 기택 가족은 박사장 집에 들어가게 된다. ", 20)
	data := domain.MovieSearchData{BasicInfo: []domain.SearchResult{
		{Title: "기생충", Text: "개요 어쩌구. 줄거리: " + plot + "더보기"},
	}}
	facts := ExtractMovieFacts(data, "")
	if !strings.HasPrefix(facts.Description, "반지하에") {
		t.Fatalf("expected synopsis after anchor, got %q", facts.Description)
	}
	if n := utf8.RuneCountInString(facts.Description); n > 280 {
		t.Fatalf("expected at most 280 runes, got %d", n)
	}
	if !strings.HasSuffix(facts.Description, "…") {
		t.Fatalf("expected ellipsis on truncated synopsis, got %q", facts.Description)
	}
}

func TestExtractMovieFactsSynopsisFallback(t *testing.T) {
	data := domain.MovieSearchData{
		BasicInfo: []domain.SearchResult{{Title: "b", Text: "basic text"}},
		Analysis:  []domain.SearchResult{{Title: "a", Text: "짧은   분석 텍스트 더 보기..."}},
	}
	facts := ExtractMovieFacts(data, "")
	if facts.Description != "짧은 분석 텍스트" {
		t.Fatalf("expected cleaned analysis fallback, got %q", facts.Description)
	}

	data.Analysis = nil
	if got := ExtractMovieFacts(data, "").Description; got != "basic text" {
		t.Fatalf("expected basic info fallback, got %q", got)
	}
}
