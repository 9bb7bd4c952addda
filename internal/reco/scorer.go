// Package reco elige ítems parecidos del pool fijo por solapamiento de géneros y keywords.
package reco

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"scent-llm/internal/domain"
)

const (
	genreWeight   = 2
	keywordWeight = 3
	maxPicks      = 2
)

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// MovieQuery describe la preferencia contra la que se puntúa el pool de películas.
type MovieQuery struct {
	PreferredGenres  []string
	AnalyzedGenres   []string
	AnalyzedKeywords []string
	ExcludeTitle     string
}

type MusicQuery struct {
	PreferredGenres  []string
	AnalyzedGenres   []string
	AnalyzedKeywords []string
	ExcludeTitle     string
	ExcludeArtist    string
}

// Normalize pasa a minúsculas, aplica NFKC y colapsa todo lo que no sea letra o dígito.
func Normalize(s string) string {
	s = norm.NFKC.String(strings.ToLower(s))
	return strings.TrimSpace(nonWordRe.ReplaceAllString(s, " "))
}

func tokenSet(items ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range items {
		for _, v := range list {
			if t := Normalize(v); t != "" {
				set[t] = struct{}{}
			}
		}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

// Score calcula 2*|géneros ∩ preferidos| + 3*|keywords ∩ analizadas|.
func Score(genres, keywords []string, prefGenres, analyzedKeywords map[string]struct{}) int {
	return genreWeight*overlap(tokenSet(genres), prefGenres) +
		keywordWeight*overlap(tokenSet(keywords), analyzedKeywords)
}

type scored[T any] struct {
	item  T
	score int
}

func topN[T any](items []scored[T], n int) []T {
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })
	if len(items) > n {
		items = items[:n]
	}
	out := make([]T, 0, len(items))
	for _, s := range items {
		out = append(out, s.item)
	}
	return out
}

// PickSimilarMovies devuelve como mucho 2 películas, las de mayor puntaje.
// Los empates conservan el orden del pool.
func PickSimilarMovies(pool []domain.RecoMovieItem, q MovieQuery) []domain.RecoMovieItem {
	genres := tokenSet(q.PreferredGenres, q.AnalyzedGenres)
	keywords := tokenSet(q.AnalyzedKeywords)
	exclude := Normalize(q.ExcludeTitle)

	candidates := make([]scored[domain.RecoMovieItem], 0, len(pool))
	for _, m := range pool {
		if exclude != "" && Normalize(m.Title) == exclude {
			continue
		}
		candidates = append(candidates, scored[domain.RecoMovieItem]{
			item:  m,
			score: Score(m.Genres, m.Keywords, genres, keywords),
		})
	}
	return topN(candidates, maxPicks)
}

// PickSimilarMusic funciona igual; con artista, sólo se excluye si coinciden título y artista.
func PickSimilarMusic(pool []domain.RecoMusicItem, q MusicQuery) []domain.RecoMusicItem {
	genres := tokenSet(q.PreferredGenres, q.AnalyzedGenres)
	keywords := tokenSet(q.AnalyzedKeywords)
	exTitle := Normalize(q.ExcludeTitle)
	exArtist := Normalize(q.ExcludeArtist)

	candidates := make([]scored[domain.RecoMusicItem], 0, len(pool))
	for _, s := range pool {
		if exTitle != "" && Normalize(s.Title) == exTitle {
			if exArtist == "" || Normalize(s.Artist) == exArtist {
				continue
			}
		}
		candidates = append(candidates, scored[domain.RecoMusicItem]{
			item:  s,
			score: Score(s.Genres, s.Keywords, genres, keywords),
		})
	}
	return topN(candidates, maxPicks)
}
