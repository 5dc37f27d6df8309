// Package search defines the provider-agnostic search record, the provider
// contract, and the aggregator that fans a query out to every configured
// catalog and merges the answers into one deduplicated list.
package search

import "strings"

// Record is one normalized search hit. ID is an ISBN-13 when the provider
// reports one (ISBN-10 as a fallback), otherwise the provider's native
// identifier — so ID alone is not globally unique; only (ID, Source) is.
type Record struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	Description   string `json:"description,omitempty"`
	PageCount     int    `json:"page_count,omitempty"`
	Source        string `json:"source"`
}

// HasISBN reports whether the record's ID looks like an ISBN (10 or 13
// digits, ignoring hyphens, with an optional trailing X check digit).
func (r Record) HasISBN() bool {
	return isISBN(r.ID)
}

func isISBN(s string) bool {
	s = strings.ReplaceAll(s, "-", "")
	if len(s) != 10 && len(s) != 13 {
		return false
	}
	for i, c := range s {
		if c >= '0' && c <= '9' {
			continue
		}
		// ISBN-10 allows X as the final check digit.
		if len(s) == 10 && i == 9 && (c == 'X' || c == 'x') {
			continue
		}
		return false
	}
	return true
}

// normalizeText case-folds and collapses runs of whitespace so that titles
// and authors from different catalogs compare equal when they differ only in
// spacing or casing.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
