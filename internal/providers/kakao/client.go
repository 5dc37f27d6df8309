// Package kakao implements the commerce-catalog search provider backed by
// the Kakao book search API (dapi.kakao.com).
package kakao

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

const ProviderName = "kakao"

// Client queries the Kakao book search endpoint. A Client without an API key
// is valid: it answers every search with zero records and never makes a
// network call, so the rest of the app works without Kakao credentials.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://dapi.kakao.com",
		apiKey:     apiKey,
		// Kakao allows bursts but throttles sustained traffic.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
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

// Search queries Kakao for books matching query. Missing optional fields in
// the response map to empty values; an empty documents array is a normal
// zero-hit answer, not an error.
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

	searchURL := fmt.Sprintf("%s/v3/search/book?query=%s&size=20", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Surface the context error so callers can tell a timeout apart
		// from a transport failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body kakaoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	records := make([]search.Record, 0, len(body.Documents))
	for _, doc := range body.Documents {
		records = append(records, convertDocument(doc))
	}
	return records, nil
}

func convertDocument(doc kakaoDocument) search.Record {
	return search.Record{
		ID:            recordID(doc),
		Title:         doc.Title,
		Author:        strings.Join(doc.Authors, ", "),
		Publisher:     doc.Publisher,
		PublishedDate: publishedDate(doc.Datetime),
		Thumbnail:     doc.Thumbnail,
		Description:   doc.Contents,
		Source:        ProviderName,
	}
}

// recordID picks the record identifier: ISBN-13 when present, then ISBN-10,
// then the detail-page URL as a last-resort native id. Kakao reports ISBNs
// as a single space-separated "isbn10 isbn13" field, either part possibly
// blank.
func recordID(doc kakaoDocument) string {
	var isbn10, isbn13 string
	for _, part := range strings.Fields(doc.ISBN) {
		switch len(part) {
		case 13:
			isbn13 = part
		case 10:
			isbn10 = part
		}
	}
	if isbn13 != "" {
		return isbn13
	}
	if isbn10 != "" {
		return isbn10
	}
	return doc.URL
}

// publishedDate trims Kakao's ISO-8601 datetime down to its date part.
func publishedDate(datetime string) string {
	if t, err := time.Parse(time.RFC3339, datetime); err == nil {
		return t.Format("2006-01-02")
	}
	if len(datetime) >= 10 {
		return datetime[:10]
	}
	return datetime
}

// Kakao API response types (internal)

type kakaoSearchResponse struct {
	Documents []kakaoDocument `json:"documents"`
	Meta      kakaoMeta       `json:"meta"`
}

type kakaoMeta struct {
	TotalCount    int  `json:"total_count"`
	PageableCount int  `json:"pageable_count"`
	IsEnd         bool `json:"is_end"`
}

type kakaoDocument struct {
	Title       string   `json:"title"`
	Contents    string   `json:"contents"`
	URL         string   `json:"url"`
	ISBN        string   `json:"isbn"`
	Datetime    string   `json:"datetime"`
	Authors     []string `json:"authors"`
	Publisher   string   `json:"publisher"`
	Translators []string `json:"translators"`
	Price       int      `json:"price"`
	SalePrice   int      `json:"sale_price"`
	Thumbnail   string   `json:"thumbnail"`
	Status      string   `json:"status"`
}
