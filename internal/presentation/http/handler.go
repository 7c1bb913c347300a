package httppresentation

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apporder "github.com/abdul-basit780/shop-ease-sub002/internal/application/order"
	domorder "github.com/abdul-basit780/shop-ease-sub002/internal/domain/order"
	"github.com/abdul-basit780/shop-ease-sub002/internal/pkg/metrics"
	"go.uber.org/zap"
)

// Workflow is the slice of the order application service the transport needs.
type Workflow interface {
	CreateOrder(ctx context.Context, in apporder.CreateOrderInput) (*apporder.CreateOrderResult, error)
	CancelOrder(ctx context.Context, customerID, orderID string) (*apporder.CancelOrderResult, error)
	AdminCancelOrder(ctx context.Context, orderID string) (*apporder.CancelOrderResult, error)
	AdminUpdateStatus(ctx context.Context, orderID, status string) (*apporder.UpdateStatusResult, error)
	Get(ctx context.Context, customerID, orderID string) (*domorder.Order, error)
	List(ctx context.Context, customerID string) ([]*domorder.Order, error)
}

type Handler struct {
	workflow  Workflow
	log       *zap.Logger
	metrics   *metrics.HTTP
	jwtSecret []byte
}

func NewHandler(workflow Workflow, logger *zap.Logger, m *metrics.HTTP, jwtSecret string) *Handler {
	return &Handler{
		workflow:  workflow,
		log:       logger.With(zap.String("component", "http_server")),
		metrics:   m,
		jwtSecret: []byte(jwtSecret),
	}
}

func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	r.GET("/health", h.health)

	api := r.Group("/api", h.authRequired())
	api.POST("/orders", h.createOrder)
	api.GET("/orders", h.listOrders)
	api.GET("/orders/:id", h.getOrder)
	api.DELETE("/orders/:id", h.cancelOrder)

	admin := api.Group("/admin", h.adminRequired())
	admin.DELETE("/orders/:id", h.adminCancelOrder)
	admin.PATCH("/orders/:id/status", h.adminUpdateStatus)

	return r
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createOrderRequest struct {
	AddressID     string `json:"address_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "ValidationError", err.Error())
		return
	}

	result, err := h.workflow.CreateOrder(c.Request.Context(), apporder.CreateOrderInput{
		CustomerID: customerID(c),
		AddressID:  req.AddressID,
		Method:     req.PaymentMethod,
	})
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}

	body := gin.H{"order": toOrderResponse(result.Order)}
	if result.ClientSecret != "" {
		body["client_secret"] = result.ClientSecret
	}
	c.JSON(http.StatusCreated, body)
}

func (h *Handler) cancelOrder(c *gin.Context) {
	result, err := h.workflow.CancelOrder(c.Request.Context(), customerID(c), c.Param("id"))
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelResponse(result))
}

func (h *Handler) adminCancelOrder(c *gin.Context) {
	result, err := h.workflow.AdminCancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelResponse(result))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) adminUpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "ValidationError", err.Error())
		return
	}

	result, err := h.workflow.AdminUpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrderResponse(result.Order)})
}

func (h *Handler) getOrder(c *gin.Context) {
	ord, err := h.workflow.Get(c.Request.Context(), customerID(c), c.Param("id"))
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrderResponse(ord)})
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.workflow.List(c.Request.Context(), customerID(c))
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, ord := range orders {
		out = append(out, toOrderResponse(ord))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func cancelResponse(result *apporder.CancelOrderResult) gin.H {
	body := gin.H{"order": toOrderResponse(result.Order)}
	if result.Refund != nil {
		body["refund"] = gin.H{
			"refund_id": result.Refund.RefundID,
			"amount":    result.Refund.Amount.StringFixed(2),
			"status":    result.Refund.Status,
		}
	}
	return body
}

// statusForCode maps workflow rejection codes onto HTTP statuses.
func statusForCode(code apporder.Code) int {
	switch code {
	case apporder.CodeEmptyCart, apporder.CodeInvalidStatus:
		return http.StatusBadRequest
	case apporder.CodeCannotCancel, apporder.CodeInsufficientStock, apporder.CodeProductUnavailable:
		return http.StatusConflict
	case apporder.CodeAddressNotFound, apporder.CodeOrderNotFound, apporder.CodePaymentInfoMissing:
		return http.StatusNotFound
	case apporder.CodePaymentFailed, apporder.CodeRefundFailed:
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeWorkflowError(c *gin.Context, err error) {
	var wf *apporder.Error
	switch {
	case errors.As(err, &wf):
		writeError(c, statusForCode(wf.Code), string(wf.Code), wf.Message)
	case errors.Is(err, apporder.ErrValidation):
		writeError(c, http.StatusBadRequest, "ValidationError", err.Error())
	default:
		h.log.Error("request_failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		writeError(c, http.StatusInternalServerError, "Internal", "internal error")
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}
