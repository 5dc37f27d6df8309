package search

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultProviderTimeout bounds each catalog call independently so one slow
// provider cannot stall the whole search.
const DefaultProviderTimeout = 5 * time.Second

// Result is what a search yields: whatever records the reachable catalogs
// returned, plus one error per catalog that failed. Records and Errors can
// both be non-empty; an empty Records with a non-empty Errors means "all
// providers down", which callers must be able to tell apart from a genuine
// zero-hit search.
type Result struct {
	Records []Record         `json:"records"`
	Errors  []*ProviderError `json:"-"`
}

// Aggregator fans a query out to every configured provider concurrently and
// merges the answers. Provider order is priority order: when two catalogs
// return the same book, the earlier provider's record wins and the later one
// only fills in fields the winner is missing.
type Aggregator struct {
	providers []Provider
	timeout   time.Duration
}

func NewAggregator(timeout time.Duration, providers ...Provider) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Aggregator{providers: providers, timeout: timeout}
}

// Aggregate queries all providers with the same query and returns the
// deduplicated union. A blank query short-circuits to an empty result
// without touching any provider. Cancelling ctx cancels every in-flight
// provider call.
func (a *Aggregator) Aggregate(ctx context.Context, query string) Result {
	if strings.TrimSpace(query) == "" {
		return Result{Records: []Record{}}
	}

	// One slot per provider keeps collection order deterministic: output is
	// provider priority order, then the provider's own submission order.
	hits := make([][]Record, len(a.providers))
	errs := make([]*ProviderError, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			records, err := p.Search(callCtx, query)
			if err != nil {
				errs[i] = &ProviderError{Provider: p.Name(), Err: err}
				return
			}
			hits[i] = records
		}(i, p)
	}
	wg.Wait()

	result := Result{Records: []Record{}}
	for _, e := range errs {
		if e != nil {
			result.Errors = append(result.Errors, e)
		}
	}
	result.Records = dedupe(hits)
	return result
}

// dedupe flattens the per-provider hit lists in priority order, dropping
// records that repeat a book already seen. Two records are the same book when
// they carry equal ISBN-like IDs, or when their normalized title and author
// both match. The first-seen record is kept; a dropped duplicate may still
// contribute a thumbnail, description or page count the kept record lacks.
func dedupe(hits [][]Record) []Record {
	out := []Record{}
	byISBN := make(map[string]int)
	byTitleAuthor := make(map[string]int)

	for _, providerHits := range hits {
		for _, rec := range providerHits {
			key := normalizeText(rec.Title) + "|" + normalizeText(rec.Author)

			var kept = -1
			if rec.HasISBN() {
				if idx, ok := byISBN[rec.ID]; ok {
					kept = idx
				}
			}
			if kept < 0 {
				if idx, ok := byTitleAuthor[key]; ok {
					kept = idx
				}
			}

			if kept >= 0 {
				enrich(&out[kept], rec)
				continue
			}

			out = append(out, rec)
			idx := len(out) - 1
			if rec.HasISBN() {
				byISBN[rec.ID] = idx
			}
			byTitleAuthor[key] = idx
		}
	}
	return out
}

// enrich copies optional fields from a dropped duplicate into the kept
// record, but only where the kept record has nothing. Identity fields are
// never replaced.
func enrich(kept *Record, dup Record) {
	if kept.Thumbnail == "" {
		kept.Thumbnail = dup.Thumbnail
	}
	if kept.Description == "" {
		kept.Description = dup.Description
	}
	if kept.PageCount == 0 {
		kept.PageCount = dup.PageCount
	}
	if kept.Publisher == "" {
		kept.Publisher = dup.Publisher
	}
	if kept.PublishedDate == "" {
		kept.PublishedDate = dup.PublishedDate
	}
}
