package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/guptarajStha/restaurant-web/billing"
	"github.com/guptarajStha/restaurant-web/models"
)

type CreateBillRequest struct {
	OrderIDs      []string `json:"order_ids"`
	CustomerName  string   `json:"customer_name"`
	CustomerPhone string   `json:"customer_phone"`
}

type DiscountRequest struct {
	Type  models.DiscountType `json:"type" binding:"required"`
	Value decimal.Decimal     `json:"value"`
}

type PaymentRequest struct {
	Status models.PaymentStatus `json:"status" binding:"required"`
	Method models.PaymentMethod `json:"method"`
}

type MergeBillsRequest struct {
	BillIDs []string `json:"bill_ids"`
}

// ListBills supports ?status=pending|paid
func (h *Handler) ListBills(c *gin.Context) {
	bills, err := h.bills.ListBills(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if status := models.PaymentStatus(c.Query("status")); status != "" {
		filtered := bills[:0]
		for _, b := range bills {
			if b.PaymentStatus == status {
				filtered = append(filtered, b)
			}
		}
		bills = filtered
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bills), "bills": bills})
}

func (h *Handler) GetBill(c *gin.Context) {
	bill, err := h.bills.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

func (h *Handler) CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	bill, err := h.bills.CreateBill(c.Request.Context(), billing.CreateBillInput{
		OrderIDs:      req.OrderIDs,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Bill created", "bill": bill})
}

func (h *Handler) ApplyDiscount(c *gin.Context) {
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	bill, err := h.bills.ApplyDiscount(c.Request.Context(), c.Param("id"), billing.DiscountInput{
		Type:  req.Type,
		Value: req.Value,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Discount applied", "bill": bill})
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	bill, err := h.bills.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.Status, req.Method)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated", "bill": bill})
}

// MergeBills answers 207 when the merged bill exists but some sources could
// not be removed.
func (h *Handler) MergeBills(c *gin.Context) {
	var req MergeBillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	bill, err := h.bills.MergeBills(c.Request.Context(), req.BillIDs)
	var partial *billing.PartialFailureError
	switch {
	case errors.As(err, &partial):
		c.JSON(http.StatusMultiStatus, gin.H{
			"message":         "Bills merged but some source bills could not be deleted",
			"bill":            bill,
			"failed_bill_ids": partial.FailedBillIDs(),
		})
	case err != nil:
		h.respondError(c, err)
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Bills merged", "bill": bill})
	}
}

func (h *Handler) DeleteBill(c *gin.Context) {
	if err := h.bills.DeleteBill(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted"})
}
