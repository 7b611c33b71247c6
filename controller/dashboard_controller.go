package controller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetKPIs serves the four dashboard counters.
func (c *ActionController) GetKPIs(ctx *gin.Context) {
	report, err := c.service.KPIs()
	if err != nil {
		log.Printf("[GetKPIs] Error computing KPIs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// GetPareto serves the open-actions-by-type pareto.
func (c *ActionController) GetPareto(ctx *gin.Context) {
	entries, err := c.service.ParetoByType()
	if err != nil {
		log.Printf("[GetPareto] Error computing pareto: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"pareto": entries})
}

// GetRecentClosures serves the actions closed in the last 7 days.
func (c *ActionController) GetRecentClosures(ctx *gin.Context) {
	views, err := c.service.ClosedLast7Days()
	if err != nil {
		log.Printf("[GetRecentClosures] Error fetching closures: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"closed": views,
		"total":  len(views),
	})
}

// ExportCSV streams the whole board as a spreadsheet-ready CSV file.
func (c *ActionController) ExportCSV(ctx *gin.Context) {
	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", `attachment; filename="QR1_Actions.csv"`)
	if err := c.service.WriteCSV(ctx.Writer); err != nil {
		log.Printf("[ExportCSV] Error writing export: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
}
