package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	"github.com/subtrackhq/subtrack/internal/app/service/report"
	"github.com/subtrackhq/subtrack/pkg/response"
)

// @Summary      Spend Summary
// @Description  Active subscription count plus monthly/yearly totals and per-category, per-department monthly rollups.
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  response.APIResponse[report.Summary]
// @Router       /api/v1/reports/summary [get]
func ApiReportSummary(rep *report.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if !caller.Role.SeesAllSubscriptions() {
			forbid(c)
			return
		}
		summary, err := rep.Summarize(c.Request.Context())
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(summary))
	}
}

// @Summary      Export Active Subscriptions CSV
// @Description  Streams a UTF-8 BOM prefixed CSV of all active subscriptions.
// @Tags         Reports
// @Produce      text/csv
// @Success      200  {string}  string  "CSV body"
// @Router       /api/v1/reports/export [get]
func ApiReportExport(rep *report.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		if !caller.Role.SeesAllSubscriptions() {
			forbid(c)
			return
		}
		filename := fmt.Sprintf("subscriptions_%s.csv", time.Now().Format("2006-01-02"))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		if err := rep.ExportActive(c.Request.Context(), c.Writer); err != nil {
			writeErr(c, err)
			return
		}
	}
}

func RegisterReportRoutes(r gin.IRouter, rep *report.Service, dir *directory.Service) {
	r.GET("/reports/summary", ApiReportSummary(rep, dir))
	r.GET("/reports/export", ApiReportExport(rep, dir))
}
