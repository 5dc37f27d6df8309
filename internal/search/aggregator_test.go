package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name    string
	records []Record
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (f *fakeProvider) Name() string {
	return f.name
}

func (f *fakeProvider) Search(ctx context.Context, query string) ([]Record, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func rec(id, title, author, source string) Record {
	return Record{ID: id, Title: title, Author: author, Source: source}
}

func TestAggregate_EmptyQuerySkipsProviders(t *testing.T) {
	p1 := &fakeProvider{name: "kakao"}
	p2 := &fakeProvider{name: "google_books"}
	agg := NewAggregator(time.Second, p1, p2)

	for _, query := range []string{"", "   ", "\t\n"} {
		result := agg.Aggregate(context.Background(), query)
		assert.Empty(t, result.Records)
		assert.Empty(t, result.Errors)
	}

	assert.Equal(t, int32(0), p1.calls.Load())
	assert.Equal(t, int32(0), p2.calls.Load())
}

func TestAggregate_MergesProvidersInPriorityOrder(t *testing.T) {
	p1 := &fakeProvider{name: "kakao", records: []Record{
		rec("9788900000001", "First Book", "Kim", "kakao"),
		rec("9788900000002", "Second Book", "Lee", "kakao"),
	}}
	p2 := &fakeProvider{name: "google_books", records: []Record{
		rec("9788900000003", "Third Book", "Park", "google_books"),
	}}
	agg := NewAggregator(time.Second, p1, p2)

	result := agg.Aggregate(context.Background(), "book")

	require.Len(t, result.Records, 3)
	assert.Equal(t, "9788900000001", result.Records[0].ID)
	assert.Equal(t, "9788900000002", result.Records[1].ID)
	assert.Equal(t, "9788900000003", result.Records[2].ID)
	assert.Empty(t, result.Errors)
}

func TestAggregate_DeduplicatesByISBNAcrossProviders(t *testing.T) {
	p1 := &fakeProvider{name: "kakao", records: []Record{
		rec("9788900000001", "듄", "프랭크 허버트", "kakao"),
	}}
	p2 := &fakeProvider{name: "google_books", records: []Record{
		rec("9788900000001", "Dune", "Frank Herbert", "google_books"),
	}}
	agg := NewAggregator(time.Second, p1, p2)

	result := agg.Aggregate(context.Background(), "dune")

	require.Len(t, result.Records, 1)
	// First-seen (priority order) record wins.
	assert.Equal(t, "kakao", result.Records[0].Source)
}

func TestAggregate_DeduplicatesByNormalizedTitleAndAuthor(t *testing.T) {
	p1 := &fakeProvider{name: "kakao", records: []Record{
		rec("native-id-1", "The Go Programming Language", "Donovan, Kernighan", "kakao"),
	}}
	p2 := &fakeProvider{name: "google_books", records: []Record{
		rec("native-id-2", "the  go   programming language", "donovan,  kernighan", "google_books"),
	}}
	agg := NewAggregator(time.Second, p1, p2)

	result := agg.Aggregate(context.Background(), "go")

	require.Len(t, result.Records, 1)
	assert.Equal(t, "native-id-1", result.Records[0].ID)
}

func TestAggregate_DifferentBooksWithNativeIDsAreKept(t *testing.T) {
	// Non-ISBN ids must not collide across providers even when equal.
	p1 := &fakeProvider{name: "kakao", records: []Record{
		rec("abc123", "Book One", "Author A", "kakao"),
	}}
	p2 := &fakeProvider{name: "google_books", records: []Record{
		rec("abc123", "Book Two", "Author B", "google_books"),
	}}
	agg := NewAggregator(time.Second, p1, p2)

	result := agg.Aggregate(context.Background(), "book")

	assert.Len(t, result.Records, 2)
}

func TestAggregate_DuplicateEnrichesMissingFields(t *testing.T) {
	p1 := &fakeProvider{name: "kakao", records: []Record{
		{ID: "9788900000001", Title: "Dune", Author: "Frank Herbert", Source: "kakao"},
	}}
	p2 := &fakeProvider{name: "google_books", records: []Record{
		{
			ID:          "9788900000001",
			Title:       "Dune",
			Author:      "Frank Herbert",
			Thumbnail:   "https://books.google.com/dune.jpg",
			Description: "A desert planet epic.",
			PageCount:   412,
			Source:      "google_books",
		},
	}}
	agg := NewAggregator(time.Second, p1, p2)

	result := agg.Aggregate(context.Background(), "dune")

	require.Len(t, result.Records, 1)
	kept := result.Records[0]
	assert.Equal(t, "kakao", kept.Source)
	assert.Equal(t, "https://books.google.com/dune.jpg", kept.Thumbnail)
	assert.Equal(t, "A desert planet epic.", kept.Description)
	assert.Equal(t, 412, kept.PageCount)
}

func TestAggregate_EnrichmentDoesNotReplaceExistingFields(t *testing.T) {
	p1 := &fakeProvider{name: "kakao", records: []Record{
		{ID: "9788900000001", Title: "Dune", Author: "Frank Herbert", Thumbnail: "https://kakao/dune.jpg", Source: "kakao"},
	}}
	p2 := &fakeProvider{name: "google_books", records: []Record{
		{ID: "9788900000001", Title: "Dune", Author: "Frank Herbert", Thumbnail: "https://google/dune.jpg", Source: "google_books"},
	}}
	agg := NewAggregator(time.Second, p1, p2)

	result := agg.Aggregate(context.Background(), "dune")

	require.Len(t, result.Records, 1)
	assert.Equal(t, "https://kakao/dune.jpg", result.Records[0].Thumbnail)
}

func TestAggregate_TimedOutProviderDoesNotBlockOthers(t *testing.T) {
	slow := &fakeProvider{name: "kakao", delay: time.Second, records: []Record{
		rec("9788900000009", "Never Arrives", "Nobody", "kakao"),
	}}
	fast := &fakeProvider{name: "google_books", records: []Record{
		rec("9788900000001", "Fast Book", "Park", "google_books"),
		rec("9788900000002", "Faster Book", "Choi", "google_books"),
	}}
	agg := NewAggregator(20*time.Millisecond, slow, fast)

	result := agg.Aggregate(context.Background(), "book")

	assert.Len(t, result.Records, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "kakao", result.Errors[0].Provider)
	assert.True(t, result.Errors[0].Timeout())
}

func TestAggregate_AllProvidersFailing(t *testing.T) {
	p1 := &fakeProvider{name: "kakao", err: errors.New("boom")}
	p2 := &fakeProvider{name: "google_books", err: errors.New("bang")}
	agg := NewAggregator(time.Second, p1, p2)

	result := agg.Aggregate(context.Background(), "book")

	assert.NotNil(t, result.Records)
	assert.Empty(t, result.Records)
	assert.Len(t, result.Errors, 2)
}

func TestAggregate_PartialFailureKeepsSuccessfulRecords(t *testing.T) {
	p1 := &fakeProvider{name: "kakao", err: errors.New("rate limited")}
	p2 := &fakeProvider{name: "google_books", records: []Record{
		rec("9788900000001", "Survivor", "Author", "google_books"),
	}}
	agg := NewAggregator(time.Second, p1, p2)

	result := agg.Aggregate(context.Background(), "book")

	require.Len(t, result.Records, 1)
	assert.Equal(t, "Survivor", result.Records[0].Title)
	require.Len(t, result.Errors, 1)
	assert.False(t, result.Errors[0].Timeout())
}

func TestDedupe_Idempotent(t *testing.T) {
	records := []Record{
		rec("9788900000001", "Dune", "Frank Herbert", "kakao"),
		rec("9788900000001", "Dune", "Frank Herbert", "google_books"),
		rec("native-1", "Other Book", "Someone", "google_books"),
	}

	once := dedupe([][]Record{records})
	twice := dedupe([][]Record{once})

	assert.Equal(t, once, twice)
}
