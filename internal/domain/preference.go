package domain

import "strings"

// PreferenceInput es lo que el usuario envía al terminar la encuesta.
type PreferenceInput struct {
	MovieGenres          []string `json:"movieGenres" binding:"required,min=1,max=12,dive,min=1,max=40"`
	MovieTitle           string   `json:"movieTitle" binding:"max=200"`
	MovieDirector        string   `json:"movieDirector" binding:"max=120"`
	MovieTrailerURL      string   `json:"movieTrailerUrl" binding:"max=500"`
	MusicTitle           string   `json:"musicTitle" binding:"max=200"`
	MusicArtist          string   `json:"musicArtist" binding:"max=120"`
	MusicYoutubeURL      string   `json:"musicYoutubeUrl" binding:"max=500"`
	YoutubeLink          string   `json:"youtubeLink" binding:"max=500"`
	ExtractedMusicTitle  string   `json:"extractedMusicTitle" binding:"max=200"`
	ExtractedMusicArtist string   `json:"extractedMusicArtist" binding:"max=120"`
	LikedFragrances      []string `json:"likedFragrances" binding:"max=10,dive,max=20"`
	DislikedFragrances   []string `json:"dislikedFragrances" binding:"max=9,dive,max=20"`
	EmotionalResponse    string   `json:"emotionalResponse" binding:"max=2000"`
	MusicMeaning         string   `json:"musicMeaning" binding:"max=1000"`
	MovieMeaning         string   `json:"movieMeaning" binding:"max=1000"`
	PersonalDescription  string   `json:"personalDescription" binding:"max=1000"`
}

// EffectiveMusicTitle prioriza lo que escribió el usuario sobre lo extraído de YouTube.
func (p PreferenceInput) EffectiveMusicTitle() string {
	if t := strings.TrimSpace(p.MusicTitle); t != "" {
		return t
	}
	return strings.TrimSpace(p.ExtractedMusicTitle)
}

func (p PreferenceInput) EffectiveMusicArtist() string {
	if a := strings.TrimSpace(p.MusicArtist); a != "" {
		return a
	}
	return strings.TrimSpace(p.ExtractedMusicArtist)
}

// YoutubeURL acepta tanto musicYoutubeUrl como el alias viejo youtubeLink.
func (p PreferenceInput) YoutubeURL() string {
	if u := strings.TrimSpace(p.MusicYoutubeURL); u != "" {
		return u
	}
	return strings.TrimSpace(p.YoutubeLink)
}

// OverlappingFragrances devuelve las familias marcadas como gusta y no gusta a la vez.
func (p PreferenceInput) OverlappingFragrances() []string {
	liked := make(map[string]struct{}, len(p.LikedFragrances))
	for _, f := range p.LikedFragrances {
		liked[strings.TrimSpace(f)] = struct{}{}
	}
	var out []string
	for _, f := range p.DislikedFragrances {
		if _, ok := liked[strings.TrimSpace(f)]; ok {
			out = append(out, f)
		}
	}
	return out
}
