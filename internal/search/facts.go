package search

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"scent-llm/internal/domain"
)

const (
	yearWindow    = 40
	synopsisLimit = 280
)

var (
	strongYearKeywords = []string{"개봉", "공개", "개봉일", "출시", "release", "released", "premiere", "theatrical"}
	jaYearKeywords     = []string{"公開", "上映", "初公開"}
	weakYearKeywords   = []string{"영화제", "festival", "시사회", "프리미어"}
)

// genreAliases mapea cada alias (ko/en) a su nombre canónico en coreano.
var genreAliases = []struct {
	alias, canonical string
}{
	{"스릴러", "스릴러"}, {"thriller", "스릴러"},
	{"드라마", "드라마"}, {"drama", "드라마"},
	{"로맨스", "로맨스"}, {"romance", "로맨스"},
	{"코미디", "코미디"}, {"comedy", "코미디"},
	{"범죄", "범죄"}, {"crime", "범죄"},
	{"액션", "액션"}, {"action", "액션"},
	{"공포", "공포"}, {"horror", "공포"},
	{"SF", "SF"}, {"sci-fi", "SF"}, {"science fiction", "SF"},
	{"판타지", "판타지"}, {"fantasy", "판타지"},
	{"느와르", "느와르"}, {"noir", "느와르"},
	{"뮤지컬", "뮤지컬"}, {"musical", "뮤지컬"},
}

var genreMatchers = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(genreAliases))
	for i, g := range genreAliases {
		out[i] = regexp.MustCompile(`(?i)(?:^|[^가-힣A-Za-z])(` + regexp.QuoteMeta(g.alias) + `)(?:$|[^가-힣A-Za-z])`)
	}
	return out
}()

var synopsisAnchors = []*regexp.Regexp{
	regexp.MustCompile(`(?i)줄거리\s*[:：]?\s*([^\n]{80,600})`),
	regexp.MustCompile(`(?i)시놉시스\s*[:：]?\s*([^\n]{80,600})`),
	regexp.MustCompile(`(?i)synopsis\s*[:：]?\s*([^\n]{80,600})`),
	regexp.MustCompile(`(?i)plot\s*[:：]?\s*([^\n]{80,600})`),
	regexp.MustCompile(`(?i)あらすじ\s*[:：]?\s*([^\n]{80,600})`),
}

var (
	boilerplateRe = regexp.MustCompile(`(?i)続きを読む|더 보기|더보기|접기|continue reading`)
	ellipsisRe    = regexp.MustCompile(`(?:\.{3,}|…)\s*$`)
)

type yearScore struct {
	score       int
	occurrences int
}

// ExtractMovieFacts infiere año, géneros y sinopsis a partir de los snippets.
// Nunca falla: ante un panic devuelve MovieFacts vacío.
func ExtractMovieFacts(data domain.MovieSearchData, directorHint string) (facts domain.MovieFacts) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("extract movie facts panicked", zap.Any("panic", r))
			facts = domain.MovieFacts{}
		}
	}()

	docs := make([]domain.SearchResult, 0, len(data.BasicInfo)+len(data.Analysis)+len(data.Reviews))
	docs = append(docs, data.BasicInfo...)
	docs = append(docs, data.Analysis...)
	docs = append(docs, data.Reviews...)
	if len(docs) == 0 {
		return domain.MovieFacts{}
	}

	facts.Year = bestYear(docs, strings.ToLower(strings.TrimSpace(directorHint)))

	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.Title+"\n"+d.Text)
	}
	blob := collapseSpaces(strings.Join(parts, "\n\n"))

	facts.Genres = matchGenres(blob)
	facts.Description = extractSynopsis(blob, data)
	return facts
}

func bestYear(docs []domain.SearchResult, director string) string {
	scores := map[string]*yearScore{}
	add := func(year string, inc int, occurrence bool) {
		s, ok := scores[year]
		if !ok {
			s = &yearScore{}
			scores[year] = s
		}
		s.score += inc
		if occurrence {
			s.occurrences++
		}
	}

	for _, d := range docs {
		if y := publishedYear(d.PublishedDate); y != "" {
			add(y, 1, false)
		}
		content := []rune(d.Title + " " + d.Text)
		for _, c := range yearCandidates(content) {
			start := max(0, c.pos-yearWindow)
			end := min(len(content), c.pos+yearWindow)
			window := strings.ToLower(string(content[start:end]))

			score := 1
			if containsAny(window, strongYearKeywords) {
				score += 3
			}
			if containsAny(window, jaYearKeywords) {
				score += 3
			}
			if containsAny(window, weakYearKeywords) {
				score++
			}
			if director != "" && strings.Contains(window, director) {
				score++
			}
			add(c.year, score, true)
		}
	}
	if len(scores) == 0 {
		return ""
	}

	years := make([]string, 0, len(scores))
	for y := range scores {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool {
		a, b := scores[years[i]], scores[years[j]]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.occurrences != b.occurrences {
			return a.occurrences > b.occurrences
		}
		return years[i] > years[j]
	})
	return years[0]
}

type yearCandidate struct {
	year string
	pos  int
}

// yearCandidates devuelve los 19xx/20xx que no forman parte de un número más largo.
func yearCandidates(content []rune) []yearCandidate {
	var out []yearCandidate
	for i := 0; i < len(content); {
		if !isASCIIDigit(content[i]) {
			i++
			continue
		}
		j := i
		for j < len(content) && isASCIIDigit(content[j]) {
			j++
		}
		if j-i == 4 {
			y := string(content[i:j])
			if strings.HasPrefix(y, "19") || strings.HasPrefix(y, "20") {
				out = append(out, yearCandidate{year: y, pos: i})
			}
		}
		i = j
	}
	return out
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func publishedYear(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	y := date[:4]
	for _, r := range y {
		if !isASCIIDigit(r) {
			return ""
		}
	}
	if !strings.HasPrefix(y, "19") && !strings.HasPrefix(y, "20") {
		return ""
	}
	if len(date) > 4 && isASCIIDigit(rune(date[4])) {
		return ""
	}
	return y
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// matchGenres devuelve los géneros canónicos en orden de primera aparición.
func matchGenres(blob string) []string {
	type hit struct {
		canonical string
		pos       int
	}
	first := map[string]int{}
	for i, re := range genreMatchers {
		loc := re.FindStringSubmatchIndex(blob)
		if loc == nil {
			continue
		}
		c := genreAliases[i].canonical
		if p, ok := first[c]; !ok || loc[2] < p {
			first[c] = loc[2]
		}
	}
	if len(first) == 0 {
		return nil
	}
	hits := make([]hit, 0, len(first))
	for c, p := range first {
		hits = append(hits, hit{c, p})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.canonical
	}
	return out
}

func extractSynopsis(blob string, data domain.MovieSearchData) string {
	for _, re := range synopsisAnchors {
		if m := re.FindStringSubmatch(blob); m != nil && m[1] != "" {
			if s := truncateSynopsis(cleanSynopsis(m[1])); s != "" {
				return s
			}
		}
	}
	var fallback string
	switch {
	case len(data.Analysis) > 0 && data.Analysis[0].Text != "":
		fallback = data.Analysis[0].Text
	case len(data.BasicInfo) > 0:
		fallback = data.BasicInfo[0].Text
	}
	return truncateSynopsis(cleanSynopsis(fallback))
}

func cleanSynopsis(s string) string {
	s = collapseSpaces(s)
	s = boilerplateRe.ReplaceAllString(s, "")
	s = ellipsisRe.ReplaceAllString(s, "")
	return collapseSpaces(s)
}

// truncateSynopsis limita a 280 runas; si corta, deja 279 más "…".
func truncateSynopsis(s string) string {
	r := []rune(s)
	if len(r) <= synopsisLimit {
		return s
	}
	return strings.TrimSpace(string(r[:synopsisLimit-1])) + "…"
}
