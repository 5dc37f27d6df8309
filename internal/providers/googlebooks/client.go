// Package googlebooks implements the metadata-catalog search provider backed
// by the Google Books volumes API.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dayoung/bookdam/internal/search"
)

const ProviderName = "google_books"

// Client queries the Google Books volumes endpoint. Without an API key it
// answers every search with zero records and makes no network calls.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://www.googleapis.com",
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

func (c *Client) Name() string {
	return ProviderName
}

// Search queries Google Books for volumes matching query. A response without
// an items array is a normal zero-hit answer. Every volumeInfo field is
// optional and maps to an empty value when absent.
func (c *Client) Search(ctx context.Context, query string) ([]search.Record, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		// Wait reports a deadline it cannot meet with its own error, not
		// context.DeadlineExceeded.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if _, ok := ctx.Deadline(); ok {
			return nil, fmt.Errorf("rate limit wait: %w", context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	searchURL := fmt.Sprintf("%s/books/v1/volumes?q=%s&maxResults=20&key=%s",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	records := make([]search.Record, 0, len(body.Items))
	for _, item := range body.Items {
		records = append(records, convertVolume(item))
	}
	return records, nil
}

func convertVolume(item volumeItem) search.Record {
	info := item.VolumeInfo
	return search.Record{
		ID:            recordID(item),
		Title:         info.Title,
		Author:        strings.Join(info.Authors, ", "),
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Thumbnail:     thumbnailURL(info.ImageLinks),
		Description:   info.Description,
		PageCount:     info.PageCount,
		Source:        ProviderName,
	}
}

// recordID prefers the ISBN-13 industry identifier, then ISBN-10, then the
// volume's own id.
func recordID(item volumeItem) string {
	var isbn10 string
	for _, ident := range item.VolumeInfo.IndustryIdentifiers {
		switch ident.Type {
		case "ISBN_13":
			if ident.Identifier != "" {
				return ident.Identifier
			}
		case "ISBN_10":
			isbn10 = ident.Identifier
		}
	}
	if isbn10 != "" {
		return isbn10
	}
	return item.ID
}

// thumbnailURL picks the best available cover image, upgrading Google's
// plain-HTTP image links to HTTPS.
func thumbnailURL(links imageLinks) string {
	u := links.Thumbnail
	if u == "" {
		u = links.SmallThumbnail
	}
	return strings.Replace(u, "http://", "https://", 1)
}

// Google Books API response types (internal)

type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	PageCount           int                  `json:"pageCount"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	ImageLinks          imageLinks           `json:"imageLinks"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}
