package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dayoung/bookdam/internal/stats"
)

// StatsProvider computes aggregates as of a reference time.
type StatsProvider interface {
	Stats(ref time.Time) (stats.Stats, error)
}

type StatsController struct {
	tracker StatsProvider
}

func NewStatsController(tracker StatsProvider) *StatsController {
	return &StatsController{tracker: tracker}
}

// GetStats returns the current reading aggregates. An optional `date`
// query (YYYY-MM-DD) sets the reference day; it defaults to today.
// GET /api/stats
func (sc *StatsController) GetStats(c *gin.Context) {
	ref := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			respondBadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		ref = parsed
	}

	result, err := sc.tracker.Stats(ref)
	if err != nil {
		respondInternalError(c, err, "compute stats")
		return
	}
	c.JSON(http.StatusOK, result)
}
