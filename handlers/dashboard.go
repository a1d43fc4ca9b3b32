package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guptarajStha/restaurant-web/models"
)

const recentOrdersOnDashboard = 5

// DashboardStats returns catalog counts and the latest orders
func (h *Handler) DashboardStats(c *gin.Context) {
	ctx := c.Request.Context()

	counts := gin.H{}
	for key, model := range map[string]interface{}{
		"tables":     &models.Table{},
		"item_types": &models.ItemType{},
		"items":      &models.MenuItem{},
	} {
		n, err := h.store.Count(ctx, model)
		if err != nil {
			h.respondError(c, err)
			return
		}
		counts[key] = n
	}

	recent, err := h.store.RecentOrders(ctx, recentOrdersOnDashboard)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts, "recent_orders": recent})
}

func (h *Handler) FinancialSummary(c *gin.Context) {
	summary, err := h.finance.Summary(c.Request.Context(), time.Now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (h *Handler) MonthlyFinancials(c *gin.Context) {
	days, err := h.finance.MonthlyBreakdown(c.Request.Context(), time.Now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(days), "days": days})
}
