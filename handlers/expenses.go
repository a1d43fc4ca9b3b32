package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/guptarajStha/restaurant-web/models"
	"github.com/guptarajStha/restaurant-web/store"
)

type ExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Date        *time.Time       `json:"date"`
}

var invalidCategory = "Invalid category. Must be one of: " + strings.Join(models.ExpenseCategories, ", ")

// ListExpenses supports ?from= and ?to= as YYYY-MM-DD, both inclusive
func (h *Handler) ListExpenses(c *gin.Context) {
	ctx := c.Request.Context()
	fromRaw, toRaw := c.Query("from"), c.Query("to")

	var (
		expenses []models.Expense
		err      error
	)
	if fromRaw == "" && toRaw == "" {
		expenses, err = h.store.ListExpenses(ctx)
	} else {
		from, to, perr := dateRange(fromRaw, toRaw)
		if perr != nil {
			badRequest(c, perr)
			return
		}
		expenses, err = h.store.ListExpensesBetween(ctx, from, to)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(expenses), "total": total, "expenses": expenses})
}

func dateRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Now()
	if fromRaw != "" {
		d, err := time.ParseInLocation("2006-01-02", fromRaw, time.Local)
		if err != nil {
			return from, to, err
		}
		from = d
	}
	if toRaw != "" {
		d, err := time.ParseInLocation("2006-01-02", toRaw, time.Local)
		if err != nil {
			return from, to, err
		}
		to = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}

func (h *Handler) ExpenseCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.ExpenseCategories})
}

func (h *Handler) GetExpense(c *gin.Context) {
	e, err := h.store.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": e})
}

func (h *Handler) CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount cannot be negative"})
		return
	}
	if !models.IsExpenseCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidCategory})
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	e := models.Expense{
		Amount:      req.Amount.Round(2),
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}
	if err := h.store.CreateExpense(c.Request.Context(), &e); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Expense recorded", "expense": e})
}

func (h *Handler) UpdateExpense(c *gin.Context) {
	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	patch := store.Patch{}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount cannot be negative"})
			return
		}
		patch["amount"] = req.Amount.Round(2)
	}
	if req.Category != nil {
		if !models.IsExpenseCategory(*req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidCategory})
			return
		}
		patch["category"] = *req.Category
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Date != nil {
		patch["date"] = *req.Date
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.store.UpdateExpense(ctx, id, patch); err != nil {
		h.respondError(c, err)
		return
	}
	e, err := h.store.GetExpense(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense updated", "expense": e})
}

func (h *Handler) DeleteExpense(c *gin.Context) {
	if err := h.store.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}
