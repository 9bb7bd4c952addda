package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

// minSnippetChars es el largo por debajo del cual un snippet se considera pobre.
const minSnippetChars = 100

// FetchFunc descarga una página y devuelve su texto legible. Debe respetar ctx.
type FetchFunc func(ctx context.Context, pageURL string) (string, error)

// ReadabilityFetch baja la página con el ctx del request y extrae el texto principal con go-readability.
func ReadabilityFetch(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.ParseRequestURI(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		return "", fmt.Errorf("fetch page: not html (%s)", ct)
	}
	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// FullTextSearcher completa los snippets demasiado cortos descargando la página.
type FullTextSearcher struct {
	next    Searcher
	fetch   FetchFunc
	timeout time.Duration
	logger  *zap.Logger
}

var _ Searcher = (*FullTextSearcher)(nil)

func NewFullTextSearcher(next Searcher, fetch FetchFunc, timeout time.Duration, logger *zap.Logger) *FullTextSearcher {
	if fetch == nil {
		fetch = ReadabilityFetch
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FullTextSearcher{next: next, fetch: fetch, timeout: timeout, logger: logger}
}

func (f *FullTextSearcher) Search(ctx context.Context, req *Request) (*Response, error) {
	resp, err := f.next.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	for i := range resp.Results {
		r := &resp.Results[i]
		if len([]rune(strings.TrimSpace(r.Text))) > minSnippetChars || r.URL == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		fctx, cancel := context.WithTimeout(ctx, f.timeout)
		text, ferr := f.fetch(fctx, r.URL)
		cancel()
		if ferr != nil {
			f.logger.Debug("readability fetch failed", zap.String("url", r.URL), zap.Error(ferr))
			continue
		}
		text = collapseSpaces(text)
		if req.MaxCharacters > 0 {
			text = truncate(text, req.MaxCharacters)
		}
		if len([]rune(text)) > len([]rune(r.Text)) {
			r.Text = text
		}
	}
	return resp, nil
}
