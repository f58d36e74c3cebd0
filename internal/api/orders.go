// internal/api/orders.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	apperrors "rank-boost/internal/common/errors"
	"rank-boost/internal/common/validation"
	"rank-boost/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	msgSubmitOK     = "订单提交成功"
	msgSubmitFailed = "订单提交失败: "
	msgListFailed   = "获取订单失败: "
	msgUpdateOK     = "订单状态更新成功"
	msgUpdateFailed = "更新订单状态失败: "
)

// maxBodyBytes caps order and status update payloads.
const maxBodyBytes = 1 << 20

type OrderHandler struct {
	orders    OrderService
	validator *validation.Validator
	errors    *apperrors.ResponseHandler
	timeout   time.Duration
}

func NewOrderHandler(orders OrderService, v *validation.Validator, errs *apperrors.ResponseHandler, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		validator: v,
		errors:    errs,
		timeout:   timeout,
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// SubmitOrder handles POST /submit-order.
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		h.errors.HandleRequestError(c, msgSubmitFailed, apperrors.NewInvalidPayloadError(err))
		return
	}

	result, err := h.validator.ValidateOrder(body)
	if err != nil {
		h.errors.HandleRequestError(c, msgSubmitFailed, apperrors.NewInvalidPayloadError(err))
		return
	}
	if !result.Valid {
		h.errors.HandleRequestError(c, msgSubmitFailed, apperrors.NewValidationError(result.Errors[0].Field, result.Summary()))
		return
	}

	req, err := models.ParseOrderRequest(body)
	if err != nil {
		h.errors.HandleRequestError(c, msgSubmitFailed, apperrors.NewInvalidPayloadError(err))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	order, err := h.orders.Create(ctx, req)
	if err != nil {
		h.errors.HandleRequestError(c, msgSubmitFailed, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgSubmitOK,
		"order":   order,
	})
}

// ListOrders handles GET /admin/orders. Storage read failures already degrade
// to an empty list, so only encoding the response can fail here.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	orders := h.orders.List(ctx)

	data, err := json.Marshal(gin.H{
		"success": true,
		"orders":  orders,
	})
	if err != nil {
		h.errors.HandleRequestError(c, msgListFailed, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// UpdateOrderStatus handles PUT /admin/orders/:id.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	body, err := readBody(c)
	if err != nil {
		h.errors.HandleRequestError(c, msgUpdateFailed, apperrors.NewInvalidPayloadError(err))
		return
	}

	result, err := h.validator.ValidateStatusUpdate(body)
	if err != nil {
		h.errors.HandleRequestError(c, msgUpdateFailed, apperrors.NewInvalidPayloadError(err))
		return
	}
	if !result.Valid {
		h.errors.HandleRequestError(c, msgUpdateFailed, apperrors.NewStatusRequiredError())
		return
	}

	var req statusUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.errors.HandleRequestError(c, msgUpdateFailed, apperrors.NewInvalidPayloadError(err))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	order, err := h.orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		h.errors.HandleRequestError(c, msgUpdateFailed, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgUpdateOK,
		"order":   order,
	})
}

func readBody(c *gin.Context) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
}

func (h *OrderHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}
