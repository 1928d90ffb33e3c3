package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aforolabs/counter-dashboard/internal/models"
	"github.com/aforolabs/counter-dashboard/internal/store"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
)

// parseDate accepts RFC3339 or a bare calendar date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// RegisterHistoryRoutes registers the paginated historical query.
//
// GET /api/history?limit=&offset=&deviceId=&startDate=&endDate=
//   - Rows are newest-first; deviceId is an exact match, the date range is
//     inclusive.
//   - Stats cover the entire table regardless of the filters applied to the
//     history array in the same response.
//   - Without a configured database this returns an empty result set with a
//     message marker, not an error.
func RegisterHistoryRoutes(r gin.IRoutes, st Store, log *zap.Logger) {
	r.GET("/api/history", func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
		if err != nil || limit <= 0 {
			limit = defaultHistoryLimit
		}
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}
		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offset < 0 {
			offset = 0
		}

		if st == nil {
			c.JSON(http.StatusOK, models.HistoryResponse{
				History:    []models.CounterReading{},
				Pagination: models.Pagination{Limit: limit, Offset: offset},
				Message:    "database not configured",
			})
			return
		}

		filter := store.HistoryFilter{
			DeviceID: c.Query("deviceId"),
			Limit:    limit,
			Offset:   offset,
		}
		if s := c.Query("startDate"); s != "" {
			t, err := parseDate(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be RFC3339 or YYYY-MM-DD"})
				return
			}
			filter.StartDate = t
		}
		if s := c.Query("endDate"); s != "" {
			t, err := parseDate(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be RFC3339 or YYYY-MM-DD"})
				return
			}
			filter.EndDate = t
		}

		history, err := st.History(c.Request.Context(), filter)
		if err != nil {
			log.Error("history query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query history"})
			return
		}

		stats, err := st.Stats(c.Request.Context())
		if err != nil {
			log.Error("stats query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query stats"})
			return
		}

		c.JSON(http.StatusOK, models.HistoryResponse{
			History: history,
			Stats:   stats,
			Pagination: models.Pagination{
				Limit:  limit,
				Offset: offset,
				Total:  stats.TotalRecords,
			},
		})
	})
}
