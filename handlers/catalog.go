package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/guptarajStha/restaurant-web/models"
	"github.com/guptarajStha/restaurant-web/store"
)

// ── Tables ──────────────────────────────────────────────────────────────────

type TableRequest struct {
	Number   int                `json:"number" binding:"required,gt=0"`
	Capacity int                `json:"capacity" binding:"gte=0"`
	Status   models.TableStatus `json:"status"`
}

type UpdateTableRequest struct {
	Number   *int                `json:"number" binding:"omitempty,gt=0"`
	Capacity *int                `json:"capacity" binding:"omitempty,gte=0"`
	Status   *models.TableStatus `json:"status"`
}

func (h *Handler) ListTables(c *gin.Context) {
	tables, err := h.store.ListTables(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(tables), "tables": tables})
}

func (h *Handler) GetTable(c *gin.Context) {
	table, err := h.store.GetTable(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": table})
}

func (h *Handler) CreateTable(c *gin.Context) {
	var req TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Status == "" {
		req.Status = models.TableAvailable
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be: available, occupied, or reserved"})
		return
	}

	table := models.Table{Number: req.Number, Capacity: req.Capacity, Status: req.Status}
	if err := h.store.CreateTable(c.Request.Context(), &table); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Table created", "table": table})
}

func (h *Handler) UpdateTable(c *gin.Context) {
	var req UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	patch := store.Patch{}
	if req.Number != nil {
		patch["number"] = *req.Number
	}
	if req.Capacity != nil {
		patch["capacity"] = *req.Capacity
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be: available, occupied, or reserved"})
			return
		}
		patch["status"] = *req.Status
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.store.UpdateTable(ctx, id, patch); err != nil {
		h.respondError(c, err)
		return
	}
	table, err := h.store.GetTable(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table updated", "table": table})
}

func (h *Handler) DeleteTable(c *gin.Context) {
	if err := h.store.DeleteTable(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table deleted"})
}

// ── Item types ──────────────────────────────────────────────────────────────

type ItemTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) ListItemTypes(c *gin.Context) {
	types, err := h.store.ListItemTypes(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(types), "item_types": types})
}

func (h *Handler) GetItemType(c *gin.Context) {
	t, err := h.store.GetItemType(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_type": t})
}

func (h *Handler) CreateItemType(c *gin.Context) {
	var req ItemTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t := models.ItemType{Name: req.Name, Description: req.Description}
	if err := h.store.CreateItemType(c.Request.Context(), &t); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item type created", "item_type": t})
}

func (h *Handler) UpdateItemType(c *gin.Context) {
	var req ItemTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.store.UpdateItemType(ctx, id, store.Patch{"name": req.Name, "description": req.Description}); err != nil {
		h.respondError(c, err)
		return
	}
	t, err := h.store.GetItemType(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item type updated", "item_type": t})
}

// DeleteItemType removes a category. Items keep their type id and show as
// "Unknown" from then on.
func (h *Handler) DeleteItemType(c *gin.Context) {
	if err := h.store.DeleteItemType(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item type deleted"})
}

// ── Menu items ──────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	TypeID      string          `json:"type_id"`
	Available   *bool           `json:"available"`
}

type UpdateItemRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	TypeID      *string          `json:"type_id"`
	Available   *bool            `json:"available"`
}

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.store.ListItems(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if typeID := c.Query("type_id"); typeID != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.TypeID == typeID {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	if c.Query("available") == "true" {
		filtered := items[:0]
		for _, it := range items {
			if it.Available {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.store.GetCatalogItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		TypeID:      req.TypeID,
		Available:   available,
	}
	if err := h.store.CreateItem(c.Request.Context(), &item); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item created", "item": item})
}

func (h *Handler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	patch := store.Patch{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price cannot be negative"})
			return
		}
		patch["price"] = req.Price.Round(2)
	}
	if req.TypeID != nil {
		patch["type_id"] = *req.TypeID
	}
	if req.Available != nil {
		patch["available"] = *req.Available
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.store.UpdateItem(ctx, id, patch); err != nil {
		h.respondError(c, err)
		return
	}
	item, err := h.store.GetCatalogItem(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated", "item": item})
}

func (h *Handler) DeleteItem(c *gin.Context) {
	if err := h.store.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
