package reco

import (
	"strconv"
	"strings"

	"scent-llm/internal/domain"
)

const (
	DefaultMovieReason = "취향 키워드/장르 유사도 기반 추천"
	DefaultSongReason  = "무드/키워드/장르 유사도 기반 추천"
	DefaultMovieEmoji  = "🎬"
	DefaultSongEmoji   = "🎵"
)

func MovieToRecommendation(m domain.RecoMovieItem) domain.RecommendedMovie {
	poster := m.Emoji
	if poster == "" {
		poster = DefaultMovieEmoji
	}
	year := ""
	if m.Year > 0 {
		year = strconv.Itoa(m.Year)
	}
	return domain.RecommendedMovie{
		Title:    m.Title,
		Director: m.Director,
		Year:     domain.FlexString(year),
		Genre:    strings.Join(m.Genres, ", "),
		Reason:   DefaultMovieReason,
		Poster:   poster,
	}
}

func SongToRecommendation(s domain.RecoMusicItem) domain.RecommendedSong {
	emoji := s.Emoji
	if emoji == "" {
		emoji = DefaultSongEmoji
	}
	return domain.RecommendedSong{
		Title:  s.Title,
		Artist: s.Artist,
		Album:  s.Album,
		Reason: DefaultSongReason,
		Emoji:  emoji,
	}
}
