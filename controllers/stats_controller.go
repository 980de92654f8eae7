// controllers/stats_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_library/db"

	"github.com/gin-gonic/gin"
)

type StatsController struct{ *Srv }

func NewStatsController(s *Srv) *StatsController { return &StatsController{Srv: s} }

// GET /api/stats
func (sc *StatsController) Summary(c *gin.Context) {
	res, err := sc.Stats.Summary(c.Request.Context())
	if err != nil {
		sc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/stats/donors?q=&page=&size=
func (sc *StatsController) Donors(c *gin.Context) {
	page, size := pageParams(c)
	res, err := sc.Stats.Donors(c.Request.Context(), db.DonorQuery{Q: c.Query("q"), Page: page, Size: size})
	if err != nil {
		sc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
