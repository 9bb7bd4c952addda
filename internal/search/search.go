// Package search consulta la API de búsqueda web y arma el contexto para el prompt.
package search

import (
	"context"
	"errors"

	"scent-llm/internal/domain"
)

// ErrNotConfigured se devuelve cuando falta la API key de búsqueda.
var ErrNotConfigured = errors.New("search api key not configured")

// Searcher define el contrato común de los backends de búsqueda.
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request es una consulta con límite de resultados y de texto por resultado.
type Request struct {
	Query         string
	NumResults    int
	MaxCharacters int
}

type Response struct {
	Results []domain.SearchResult
}
