package kakao

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/dayoung/bookdam/internal/search"
)

const searchFixture = `{
	"meta": {"total_count": 2, "pageable_count": 2, "is_end": true},
	"documents": [
		{
			"title": "미움받을 용기",
			"contents": "아들러 심리학을 다룬 대화체 책",
			"url": "https://search.daum.net/book?id=1467038",
			"isbn": "8996991341 9788996991342",
			"datetime": "2014-11-17T00:00:00.000+09:00",
			"authors": ["기시미 이치로", "고가 후미타케"],
			"publisher": "인플루엔셜",
			"thumbnail": "https://via.kakao.com/thumb1.jpg"
		},
		{
			"title": "Sparse Book",
			"contents": "",
			"url": "https://search.daum.net/book?id=99",
			"isbn": "",
			"datetime": "",
			"authors": [],
			"publisher": ""
		}
	]
}`

func TestSearch_ParsesDocuments(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/v3/search/book", r.URL.Path)
		assert.Equal(t, "용기", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchFixture))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	records, err := client.Search(context.Background(), "용기")

	require.NoError(t, err)
	assert.Equal(t, "KakaoAK test-key", gotAuth)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "9788996991342", first.ID, "ISBN-13 part of the isbn field wins")
	assert.Equal(t, "미움받을 용기", first.Title)
	assert.Equal(t, "기시미 이치로, 고가 후미타케", first.Author)
	assert.Equal(t, "인플루엔셜", first.Publisher)
	assert.Equal(t, "2014-11-17", first.PublishedDate)
	assert.Equal(t, "https://via.kakao.com/thumb1.jpg", first.Thumbnail)
	assert.Equal(t, ProviderName, first.Source)
}

func TestSearch_MissingOptionalFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchFixture))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	records, err := client.Search(context.Background(), "sparse")

	require.NoError(t, err)
	require.Len(t, records, 2)

	sparse := records[1]
	// No ISBN: the detail URL stands in as the native id.
	assert.Equal(t, "https://search.daum.net/book?id=99", sparse.ID)
	assert.Empty(t, sparse.Author)
	assert.Empty(t, sparse.Publisher)
	assert.Empty(t, sparse.Thumbnail)
}

func TestSearch_EmptyDocumentsIsZeroHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {"total_count": 0, "is_end": true}, "documents": []}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	records, err := client.Search(context.Background(), "nothing")

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearch_MissingDocumentsFieldIsZeroHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {"total_count": 0, "is_end": true}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	records, err := client.Search(context.Background(), "nothing")

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearch_NoAPIKeyMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("", server.URL)
	records, err := client.Search(context.Background(), "anything")

	require.NoError(t, err)
	assert.Nil(t, records)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSearch_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("bad-key", server.URL)
	_, err := client.Search(context.Background(), "anything")

	assert.Error(t, err)
}

func TestRecordID(t *testing.T) {
	tests := []struct {
		name string
		isbn string
		url  string
		want string
	}{
		{"both ISBNs", "8996991341 9788996991342", "https://x", "9788996991342"},
		{"isbn10 only", "8996991341", "https://x", "8996991341"},
		{"isbn13 only", " 9788996991342", "https://x", "9788996991342"},
		{"no isbn", "", "https://x", "https://x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := kakaoDocument{ISBN: tt.isbn, URL: tt.url}
			assert.Equal(t, tt.want, recordID(doc))
		})
	}
}

func TestSearch_ExhaustedLimiterWithDeadlineIsTimeout(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"documents": [], "meta": {}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	client.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, client.limiter.Allow(), "drain the single token")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "anything")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(0), calls.Load())

	pe := &search.ProviderError{Provider: ProviderName, Err: err}
	assert.True(t, pe.Timeout())
}
