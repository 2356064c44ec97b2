package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-lending/internal/backend/repository"
	"library-lending/internal/backend/service"
)

// BorrowingHandler atiende /api/borrowing.
type BorrowingHandler struct {
	logger  *zap.Logger
	lending *service.LendingService
}

func NewBorrowingHandler(logger *zap.Logger, lending *service.LendingService) *BorrowingHandler {
	return &BorrowingHandler{logger: logger, lending: lending}
}

type inventoryRequest struct {
	InventoryID int64 `json:"inventoryId" binding:"required,gt=0"`
}

// Borrow maneja POST /api/borrowing/borrow.
func (h *BorrowingHandler) Borrow(c *gin.Context) {
	userID, req, okReq := h.bindInventory(c)
	if !okReq {
		return
	}
	rec, err := h.lending.Borrow(c.Request.Context(), userID, req.InventoryID)
	if err != nil {
		h.lendingError(c, "borrow failed", "BORROW_ERROR", err)
		return
	}
	ok(c, "borrow successful", rec)
}

// Return maneja POST /api/borrowing/return.
func (h *BorrowingHandler) Return(c *gin.Context) {
	userID, req, okReq := h.bindInventory(c)
	if !okReq {
		return
	}
	rec, err := h.lending.Return(c.Request.Context(), userID, req.InventoryID)
	if err != nil {
		h.lendingError(c, "return failed", "RETURN_ERROR", err)
		return
	}
	ok(c, "return successful", rec)
}

func (h *BorrowingHandler) Active(c *gin.Context) {
	userID, found := authUserID(c)
	if !found {
		fail(c, http.StatusUnauthorized, "invalid token", "INVALID_TOKEN")
		return
	}
	records, err := h.lending.Active(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list active borrowings failed", zap.Error(err))
		fail(c, http.StatusBadRequest, "could not list borrowings", "ACTIVE_BORROWINGS_ERROR")
		return
	}
	ok(c, "query successful", records)
}

func (h *BorrowingHandler) History(c *gin.Context) {
	userID, found := authUserID(c)
	if !found {
		fail(c, http.StatusUnauthorized, "invalid token", "INVALID_TOKEN")
		return
	}
	records, err := h.lending.History(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list borrowing history failed", zap.Error(err))
		fail(c, http.StatusBadRequest, "could not list history", "HISTORY_ERROR")
		return
	}
	ok(c, "query successful", records)
}

func (h *BorrowingHandler) Stats(c *gin.Context) {
	userID, found := authUserID(c)
	if !found {
		fail(c, http.StatusUnauthorized, "invalid token", "INVALID_TOKEN")
		return
	}
	stats, err := h.lending.Stats(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("borrowing stats failed", zap.Error(err))
		fail(c, http.StatusBadRequest, "could not compute stats", "STATS_ERROR")
		return
	}
	ok(c, "query successful", stats)
}

// CheckAvailability maneja GET /api/borrowing/check-availability/:inventoryId.
func (h *BorrowingHandler) CheckAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("inventoryId"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid inventory id", "AVAILABILITY_CHECK_ERROR")
		return
	}
	av, err := h.lending.Availability(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrInventoryNotFound) {
			fail(c, http.StatusBadRequest, err.Error(), "AVAILABILITY_CHECK_ERROR")
			return
		}
		h.logger.Error("check availability failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "could not check availability", "AVAILABILITY_CHECK_ERROR")
		return
	}
	ok(c, "query successful", av)
}

func (h *BorrowingHandler) bindInventory(c *gin.Context) (int64, inventoryRequest, bool) {
	var req inventoryRequest
	userID, found := authUserID(c)
	if !found {
		fail(c, http.StatusUnauthorized, "invalid token", "INVALID_TOKEN")
		return 0, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid inventory request", zap.Error(err))
		fail(c, http.StatusBadRequest, "invalid request", "VALIDATION_ERROR")
		return 0, req, false
	}
	return userID, req, true
}

// lendingError traduce las reglas de prestamo a 400 y el resto a 500.
func (h *BorrowingHandler) lendingError(c *gin.Context, prefix, code string, err error) {
	switch {
	case errors.Is(err, repository.ErrInventoryNotFound),
		errors.Is(err, repository.ErrNotAvailable),
		errors.Is(err, repository.ErrAlreadyBorrowed),
		errors.Is(err, repository.ErrNoActiveRecord),
		errors.Is(err, repository.ErrNotBorrower):
		fail(c, http.StatusBadRequest, prefix+": "+err.Error(), code)
	default:
		h.logger.Error(prefix, zap.Error(err))
		fail(c, http.StatusInternalServerError, prefix, code)
	}
}
