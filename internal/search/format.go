package search

import (
	"fmt"
	"regexp"
	"strings"

	"scent-llm/internal/domain"
)

var spaceRe = regexp.MustCompile(`\s+`)

// relevantTerms marcan un snippet como útil aunque sea corto.
var relevantTerms = []string{
	"곡", "음악", "노래", "영화", "추천", "리스트",
	"song", "track", "artist", "movie", "film", "recommendation",
	"감독", "연도", "개봉", "줄거리", "synopsis", "plot",
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// truncate corta a n runas sin agregar sufijo.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// formatResults descarta snippets de 100 runas o menos y los que no parecen relevantes
// salvo que superen las 300 runas.
func formatResults(results []domain.SearchResult) []domain.SearchResult {
	out := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		n := len([]rune(r.Text))
		if n <= minSnippetChars {
			continue
		}
		if n > 300 || isRelevant(r) {
			out = append(out, r)
		}
	}
	return out
}

func isRelevant(r domain.SearchResult) bool {
	text := strings.ToLower(r.Text)
	title := strings.ToLower(r.Title)
	for _, term := range relevantTerms {
		if strings.Contains(text, term) || strings.Contains(title, term) {
			return true
		}
	}
	return false
}

// filterByMention se queda con los resultados que mencionan needle, si queda alguno.
func filterByMention(results []domain.SearchResult, needle string) []domain.SearchResult {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return results
	}
	var kept []domain.SearchResult
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Title+" "+r.Text), needle) {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return results
	}
	return kept
}

func writeSection(sb *strings.Builder, heading, label string, results []domain.SearchResult, limit int) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(sb, "#### %s:\n", heading)
	for i, r := range results {
		fmt.Fprintf(sb, "**%s %d**: %s\n%s...\n\n", label, i+1, r.Title, truncate(r.Text, limit))
	}
}

// FormatSearchDataForAI arma el bloque Markdown con los datos web para el prompt.
// Los argumentos nil se omiten.
func FormatSearchDataForAI(movie *domain.MovieSearchData, music *domain.MusicSearchData, fragrance []domain.SearchResult) string {
	var sb strings.Builder
	sb.WriteString("## 웹 검색을 통해 수집된 실제 데이터\n\n")

	if movie != nil {
		sb.WriteString("### 🎬 영화 관련 정보\n\n")
		writeSection(&sb, "기본 정보", "자료", movie.BasicInfo, 800)
		writeSection(&sb, "리뷰 및 평가", "리뷰", movie.Reviews, 600)
		writeSection(&sb, "전문 분석", "분석", movie.Analysis, 800)
	}

	if music != nil {
		sb.WriteString("### 🎵 음악 관련 정보\n\n")
		writeSection(&sb, "기본 정보", "자료", music.BasicInfo, 800)
		writeSection(&sb, "가사 정보", "가사", music.Lyrics, 1000)
		writeSection(&sb, "음악 분석", "분석", music.Analysis, 800)
		writeSection(&sb, "아티스트 정보", "아티스트", music.ArtistInfo, 600)
	}

	if len(fragrance) > 0 {
		sb.WriteString("### 🌸 향수 전문 지식\n\n")
		for i, r := range fragrance {
			fmt.Fprintf(&sb, "**전문지식 %d**: %s\n%s...\n\n", i+1, r.Title, truncate(r.Text, 800))
		}
	}

	sb.WriteString("\n---\n위의 실제 웹 데이터를 참고하여 더욱 정확하고 전문적인 분석을 진행해주세요.\n\n")
	return sb.String()
}

// FormatLibraryInfoForAI describe las herramientas de análisis como contexto metodológico.
func FormatLibraryInfoForAI(libs domain.LibraryContext) string {
	var sb strings.Builder
	sb.WriteString("## 전문 분석 도구 및 라이브러리 정보\n\n")
	groups := []struct {
		heading string
		items   []domain.LibraryInfo
	}{
		{"### 🎵 음악 분석 전문 도구들", libs.Music},
		{"### 🎬 영화 분석 전문 도구들", libs.Movie},
		{"### 🧪 향수/화학 분석 전문 도구들", libs.Fragrance},
	}
	for _, g := range groups {
		if len(g.items) == 0 {
			continue
		}
		sb.WriteString(g.heading + "\n\n")
		for _, lib := range g.items {
			fmt.Fprintf(&sb, "**%s**: %s\n분석 활용: %s\n\n", lib.Name, lib.Description, lib.Documentation)
		}
	}
	sb.WriteString("\n위의 전문 도구들의 분석 방법론을 참고하여 과학적이고 체계적인 분석을 진행해주세요.\n\n")
	return sb.String()
}
