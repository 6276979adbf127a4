package mockbackend

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// queryInt reads a positive integer parameter. Missing, malformed,
// non-positive or over-limit values fall back to def. limit <= 0 disables the
// upper bound.
func queryInt(c *gin.Context, name string, def, limit int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 || (limit > 0 && v > limit) {
		return def
	}
	return v
}

func (s *Server) getEvents(c *gin.Context) {
	q := models.EventsQuery{
		Page:      queryInt(c, "page", 1, 0),
		Limit:     queryInt(c, "limit", defaultLimit, maxLimit),
		Search:    c.Query("search"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	events, total, err := s.store.Events(q)
	if err != nil {
		rangeError(c, err)
		return
	}

	p := models.NewPagination(q.Page, q.Limit, total)
	c.JSON(http.StatusOK, models.EventsPage{Events: events, Pagination: &p})
}

func (s *Server) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, models.Metrics{Counts: s.store.Summary()})
}

func (s *Server) getDailyMetrics(c *gin.Context) {
	m, err := s.store.Daily(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		rangeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DailySeries{DailyMetrics: m})
}

func (s *Server) getMonthlyMetrics(c *gin.Context) {
	m, err := s.store.Monthly(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		rangeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MonthlySeries{MonthlyMetrics: m})
}

func (s *Server) getHourlyMetrics(c *gin.Context) {
	m, err := s.store.Hourly(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		rangeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.HourlySeries{HourlyMetrics: m})
}

func rangeError(c *gin.Context, err error) {
	if errors.Is(err, common.ErrorValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
