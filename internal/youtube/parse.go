package youtube

import (
	"regexp"
	"strings"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?(?:[^#\s]*&)?v=([^&\n?#]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/embed/([^&\n?#/]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/v/([^&\n?#/]+)`),
	regexp.MustCompile(`(?:https?://)?youtu\.be/([^&\n?#/]+)`),
}

// ExtractVideoID devuelve el id del video o "" si la URL no es de YouTube.
func ExtractVideoID(url string) string {
	url = strings.TrimSpace(url)
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

type titlePattern struct {
	re *regexp.Regexp
	// artistFirst indica si el primer grupo es el artista.
	artistFirst bool
}

var titlePatterns = []titlePattern{
	{regexp.MustCompile(`^(.+?)\s*[-–—]\s*(.+)$`), true},
	{regexp.MustCompile(`^(.+?)\s*:\s*(.+)$`), true},
	{regexp.MustCompile(`^(.+?)\s*\|\s*(.+)$`), true},
	{regexp.MustCompile(`(?i)^(.+?)\s+by\s+(.+)$`), false},
	{regexp.MustCompile(`^(.+?)\s*\(\s*(.+?)\s*\)$`), false},
	{regexp.MustCompile(`^(.+?)\s*\[\s*(.+?)\s*\]$`), false},
}

// ParseArtistAndTitle separa "Artista - Canción" y variantes. Sin patrón, todo es título.
func ParseArtistAndTitle(title string) (artist, song string) {
	title = strings.TrimSpace(title)
	for _, p := range titlePatterns {
		m := p.re.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		first, second := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if p.artistFirst {
			return first, second
		}
		return second, first
	}
	return "", title
}
