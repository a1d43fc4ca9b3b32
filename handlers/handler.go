package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guptarajStha/restaurant-web/apperr"
	"github.com/guptarajStha/restaurant-web/billing"
	"github.com/guptarajStha/restaurant-web/feed"
	"github.com/guptarajStha/restaurant-web/finance"
	"github.com/guptarajStha/restaurant-web/ordering"
	"github.com/guptarajStha/restaurant-web/store"
)

// Handler serves the back-office API. Every dependency is injected so no
// request reads process-wide state.
type Handler struct {
	store     *store.Store
	orders    *ordering.Service
	bills     *billing.Engine
	feed      *feed.Hub
	finance   *finance.Reporter
	jwtSecret []byte
	feedLimit int
	log       zerolog.Logger
}

type Deps struct {
	Store     *store.Store
	Orders    *ordering.Service
	Bills     *billing.Engine
	Feed      *feed.Hub
	Finance   *finance.Reporter
	JWTSecret []byte
	FeedLimit int
	Log       zerolog.Logger
}

func New(d Deps) *Handler {
	if d.FeedLimit <= 0 {
		d.FeedLimit = feed.DefaultLimit
	}
	return &Handler{
		store:     d.Store,
		orders:    d.Orders,
		bills:     d.Bills,
		feed:      d.Feed,
		finance:   d.Finance,
		jwtSecret: d.JWTSecret,
		feedLimit: d.FeedLimit,
		log:       d.Log,
	}
}

// respondError maps the error taxonomy onto HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindValidation:
		status = http.StatusBadRequest
		if errors.Is(err, billing.ErrBillSettled) {
			status = http.StatusUnprocessableEntity
		}
	}

	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	msg := err.Error()
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Message != "" {
		msg = ae.Message
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// queryInt parses an optional non-negative integer query parameter
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return n, nil
}
