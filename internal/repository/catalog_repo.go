package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scent-llm/internal/domain"
)

// CatalogRepository persiste los pools de recomendación.
type CatalogRepository interface {
	ListMovies(ctx context.Context) ([]domain.RecoMovieItem, error)
	ListMusic(ctx context.Context) ([]domain.RecoMusicItem, error)
	UpsertMovies(ctx context.Context, items []domain.RecoMovieItem) error
	UpsertMusic(ctx context.Context, items []domain.RecoMusicItem) error
}

// PgCatalogRepository implementa CatalogRepository usando pgxpool.
type PgCatalogRepository struct {
	pool *pgxpool.Pool
}

func NewPgCatalogRepository(pool *pgxpool.Pool) *PgCatalogRepository {
	return &PgCatalogRepository{pool: pool}
}

const catalogSchema = `
	CREATE TABLE IF NOT EXISTS reco_movies (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		director   TEXT NOT NULL DEFAULT '',
		year       INT NOT NULL DEFAULT 0,
		genres     TEXT[] NOT NULL DEFAULT '{}',
		keywords   TEXT[] NOT NULL DEFAULT '{}',
		emoji      TEXT NOT NULL DEFAULT '',
		position   INT NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS reco_music (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		artist     TEXT NOT NULL DEFAULT '',
		album      TEXT NOT NULL DEFAULT '',
		year       INT NOT NULL DEFAULT 0,
		genres     TEXT[] NOT NULL DEFAULT '{}',
		keywords   TEXT[] NOT NULL DEFAULT '{}',
		emoji      TEXT NOT NULL DEFAULT '',
		position   INT NOT NULL DEFAULT 0
	);
`

// EnsureSchema crea las tablas si no existen.
func (r *PgCatalogRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, catalogSchema)
	return err
}

// ListMovies respeta el orden del pool (position), que define los desempates del ranking.
func (r *PgCatalogRepository) ListMovies(ctx context.Context) ([]domain.RecoMovieItem, error) {
	const query = `
		SELECT id, title, director, year, genres, keywords, emoji
		FROM reco_movies
		ORDER BY position, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RecoMovieItem
	for rows.Next() {
		var m domain.RecoMovieItem
		if err := rows.Scan(&m.ID, &m.Title, &m.Director, &m.Year, &m.Genres, &m.Keywords, &m.Emoji); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PgCatalogRepository) ListMusic(ctx context.Context) ([]domain.RecoMusicItem, error) {
	const query = `
		SELECT id, title, artist, album, year, genres, keywords, emoji
		FROM reco_music
		ORDER BY position, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RecoMusicItem
	for rows.Next() {
		var s domain.RecoMusicItem
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist, &s.Album, &s.Year, &s.Genres, &s.Keywords, &s.Emoji); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PgCatalogRepository) UpsertMovies(ctx context.Context, items []domain.RecoMovieItem) error {
	const query = `
		INSERT INTO reco_movies (id, title, director, year, genres, keywords, emoji, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			director = EXCLUDED.director,
			year = EXCLUDED.year,
			genres = EXCLUDED.genres,
			keywords = EXCLUDED.keywords,
			emoji = EXCLUDED.emoji,
			position = EXCLUDED.position
	`
	batch := &pgx.Batch{}
	for i, m := range items {
		batch.Queue(query, m.ID, m.Title, m.Director, m.Year, m.Genres, m.Keywords, m.Emoji, i)
	}
	return r.sendBatch(ctx, batch, len(items))
}

func (r *PgCatalogRepository) UpsertMusic(ctx context.Context, items []domain.RecoMusicItem) error {
	const query = `
		INSERT INTO reco_music (id, title, artist, album, year, genres, keywords, emoji, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			artist = EXCLUDED.artist,
			album = EXCLUDED.album,
			year = EXCLUDED.year,
			genres = EXCLUDED.genres,
			keywords = EXCLUDED.keywords,
			emoji = EXCLUDED.emoji,
			position = EXCLUDED.position
	`
	batch := &pgx.Batch{}
	for i, s := range items {
		batch.Queue(query, s.ID, s.Title, s.Artist, s.Album, s.Year, s.Genres, s.Keywords, s.Emoji, i)
	}
	return r.sendBatch(ctx, batch, len(items))
}

func (r *PgCatalogRepository) sendBatch(ctx context.Context, batch *pgx.Batch, n int) error {
	if n == 0 {
		return nil
	}
	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch item %d: %w", i, err)
		}
	}
	return nil
}
