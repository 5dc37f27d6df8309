package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayoung/bookdam/internal/search"
)

// Searcher is the query fan-out the controller delegates to.
type Searcher interface {
	Aggregate(ctx context.Context, query string) search.Result
}

type SearchController struct {
	aggregator Searcher
}

func NewSearchController(aggregator Searcher) *SearchController {
	return &SearchController{aggregator: aggregator}
}

// SearchResponse carries the merged records plus one warning per catalog
// that failed. A zero-hit search and an all-catalogs-down search look
// different: the latter has warnings.
type SearchResponse struct {
	Records  []search.Record `json:"records"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Search queries all configured book catalogs.
// GET /api/search?q=...
func (sc *SearchController) Search(c *gin.Context) {
	result := sc.aggregator.Aggregate(c.Request.Context(), c.Query("q"))

	resp := SearchResponse{Records: result.Records}
	for _, perr := range result.Errors {
		resp.Warnings = append(resp.Warnings, perr.Error())
	}
	c.JSON(http.StatusOK, resp)
}
