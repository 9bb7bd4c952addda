// Package youtube obtiene metadata de videos vía YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"scent-llm/internal/domain"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

var (
	ErrInvalidURL    = errors.New("invalid youtube url")
	ErrVideoNotFound = errors.New("youtube video not found")
	ErrNotConfigured = errors.New("youtube api key not configured")
)

// APIError conserva el status de la API para propagarlo al cliente.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube api error (status %d): %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type videosResponse struct {
	Items []struct {
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

type snippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
}

// VideoFromURL valida la URL y resuelve la metadata del video.
func (c *Client) VideoFromURL(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	id := ExtractVideoID(rawURL)
	if id == "" {
		return nil, ErrInvalidURL
	}
	return c.Video(ctx, id)
}

// Video consulta videos?part=snippet. Si el título no trae artista se usa el canal.
func (c *Client) Video(ctx context.Context, id string) (*domain.VideoInfo, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	q := url.Values{}
	q.Set("id", id)
	q.Set("part", "snippet")
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: msg}
	}

	var vr videosResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(vr.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	sn := vr.Items[0].Snippet
	artist, title := ParseArtistAndTitle(sn.Title)
	if title == "" {
		title = sn.Title
	}
	if artist == "" {
		artist = sn.ChannelTitle
	}
	return &domain.VideoInfo{
		Title:       title,
		Artist:      artist,
		Description: sn.Description,
		PublishedAt: sn.PublishedAt,
	}, nil
}
