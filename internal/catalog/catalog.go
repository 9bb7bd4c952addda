package catalog

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"scent-llm/internal/domain"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Families son las 10 familias que ofrece la encuesta, en orden de UI.
var Families = []string{"플로럴", "우디", "시트러스", "오리엔탈", "프레시", "스파이시", "머스크", "바닐라", "아쿠아틱", "파우더리"}

// Catalog agrupa los datasets de solo lectura que se cargan una vez al arrancar.
type Catalog struct {
	Movies    []domain.RecoMovieItem
	Music     []domain.RecoMusicItem
	Flavors   *FlavorDB
	Libraries domain.LibraryContext
}

// PoolSource permite reemplazar los pools embebidos (p.ej. desde Postgres).
type PoolSource interface {
	ListMovies(ctx context.Context) ([]domain.RecoMovieItem, error)
	ListMusic(ctx context.Context) ([]domain.RecoMusicItem, error)
}

// LoadEmbedded carga pools y notas desde los YAML embebidos.
func LoadEmbedded() (*Catalog, error) {
	var movies []domain.RecoMovieItem
	if err := readYAML("data/movies.yaml", &movies); err != nil {
		return nil, err
	}
	var music []domain.RecoMusicItem
	if err := readYAML("data/music.yaml", &music); err != nil {
		return nil, err
	}
	var notes []domain.FlavorNote
	if err := readYAML("data/flavors.yaml", &notes); err != nil {
		return nil, err
	}
	flavors, err := NewFlavorDB(notes)
	if err != nil {
		return nil, err
	}
	var libs domain.LibraryContext
	if err := readYAML("data/libraries.yaml", &libs); err != nil {
		return nil, err
	}
	return &Catalog{Movies: movies, Music: music, Flavors: flavors, Libraries: libs}, nil
}

// Load usa los YAML embebidos y, si hay fuente externa con datos, pisa los pools.
// Un error de la fuente externa no es fatal: se devuelve junto al catálogo embebido.
func Load(ctx context.Context, src PoolSource) (*Catalog, error) {
	cat, err := LoadEmbedded()
	if err != nil {
		return nil, err
	}
	if src == nil {
		return cat, nil
	}
	movies, err := src.ListMovies(ctx)
	if err != nil {
		return cat, fmt.Errorf("list movies: %w", err)
	}
	music, err := src.ListMusic(ctx)
	if err != nil {
		return cat, fmt.Errorf("list music: %w", err)
	}
	if len(movies) > 0 {
		cat.Movies = movies
	}
	if len(music) > 0 {
		cat.Music = music
	}
	return cat, nil
}

func readYAML(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// IsFamily indica si el string es una de las familias conocidas.
func IsFamily(s string) bool {
	s = strings.TrimSpace(s)
	for _, f := range Families {
		if f == s {
			return true
		}
	}
	return false
}
