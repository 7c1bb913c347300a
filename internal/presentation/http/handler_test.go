package httppresentation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apporder "github.com/abdul-basit780/shop-ease-sub002/internal/application/order"
	domorder "github.com/abdul-basit780/shop-ease-sub002/internal/domain/order"
	dompayment "github.com/abdul-basit780/shop-ease-sub002/internal/domain/payment"
)

const testSecret = "test-secret"

type stubWorkflow struct {
	createResult *apporder.CreateOrderResult
	createErr    error
	cancelResult *apporder.CancelOrderResult
	cancelErr    error
	updateResult *apporder.UpdateStatusResult
	updateErr    error

	createIn     apporder.CreateOrderInput
	cancelCustID string
	cancelID     string
	adminCancels int
}

func (w *stubWorkflow) CreateOrder(_ context.Context, in apporder.CreateOrderInput) (*apporder.CreateOrderResult, error) {
	w.createIn = in
	return w.createResult, w.createErr
}

func (w *stubWorkflow) CancelOrder(_ context.Context, customerID, orderID string) (*apporder.CancelOrderResult, error) {
	w.cancelCustID, w.cancelID = customerID, orderID
	return w.cancelResult, w.cancelErr
}

func (w *stubWorkflow) AdminCancelOrder(_ context.Context, orderID string) (*apporder.CancelOrderResult, error) {
	w.adminCancels++
	w.cancelID = orderID
	return w.cancelResult, w.cancelErr
}

func (w *stubWorkflow) AdminUpdateStatus(_ context.Context, orderID, status string) (*apporder.UpdateStatusResult, error) {
	return w.updateResult, w.updateErr
}

func (w *stubWorkflow) Get(_ context.Context, customerID, orderID string) (*domorder.Order, error) {
	if w.cancelErr != nil {
		return nil, w.cancelErr
	}
	return sampleOrder(), nil
}

func (w *stubWorkflow) List(_ context.Context, customerID string) ([]*domorder.Order, error) {
	return []*domorder.Order{sampleOrder()}, nil
}

func sampleOrder() *domorder.Order {
	return &domorder.Order{
		ID:         "ord-1",
		CustomerID: "cust-1",
		Status:     domorder.StatusPending,
		Total:      decimal.RequireFromString("35.98"),
		Address:    "1 Main St, Springfield, IL 62701",
		Lines: []domorder.Line{{
			ProductID: "prod-1",
			Name:      "Classic Tee",
			UnitPrice: decimal.RequireFromString("18.99"),
			Quantity:  2,
		}},
	}
}

func newRouter(wf Workflow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(wf, zap.NewNop(), nil, testSecret).Router()
}

func signToken(t *testing.T, subject, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateOrderEndpoint(t *testing.T) {
	wf := &stubWorkflow{createResult: &apporder.CreateOrderResult{
		Order:        sampleOrder(),
		ClientSecret: "pi_1_secret",
	}}
	router := newRouter(wf)
	token := signToken(t, "cust-1", "customer")

	w := doRequest(router, http.MethodPost, "/api/orders", token,
		`{"address_id":"a6a7a8a9-0000-0000-0000-000000000001","payment_method":"card"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "cust-1", wf.createIn.CustomerID, "customer comes from the token, not the body")
	assert.Equal(t, "card", wf.createIn.Method)

	var body struct {
		Order        json.RawMessage `json:"order"`
		ClientSecret string          `json:"client_secret"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pi_1_secret", body.ClientSecret)
}

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	router := newRouter(&stubWorkflow{})
	token := signToken(t, "cust-1", "customer")

	w := doRequest(router, http.MethodPost, "/api/orders", token, `{"payment_method":"card"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequired(t *testing.T) {
	router := newRouter(&stubWorkflow{})

	w := doRequest(router, http.MethodGet, "/api/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	forged := signToken(t, "cust-1", "customer") + "x"
	w = doRequest(router, http.MethodGet, "/api/orders", forged, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRouteForbiddenForCustomers(t *testing.T) {
	wf := &stubWorkflow{cancelResult: &apporder.CancelOrderResult{Order: sampleOrder()}}
	router := newRouter(wf)

	w := doRequest(router, http.MethodDelete, "/api/admin/orders/ord-1", signToken(t, "cust-1", "customer"), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, wf.adminCancels)

	w = doRequest(router, http.MethodDelete, "/api/admin/orders/ord-1", signToken(t, "staff-1", "admin"), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, wf.adminCancels)
	assert.Equal(t, "ord-1", wf.cancelID)
}

func TestCancelOrderIncludesRefund(t *testing.T) {
	wf := &stubWorkflow{cancelResult: &apporder.CancelOrderResult{
		Order: sampleOrder(),
		Refund: &dompayment.RefundResult{
			RefundID: "re_1",
			Amount:   decimal.RequireFromString("35.98"),
			Status:   "succeeded",
		},
	}}
	router := newRouter(wf)

	w := doRequest(router, http.MethodDelete, "/api/orders/ord-1", signToken(t, "cust-1", "customer"), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cust-1", wf.cancelCustID)

	var body struct {
		Refund struct {
			RefundID string `json:"refund_id"`
			Amount   string `json:"amount"`
		} `json:"refund"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "re_1", body.Refund.RefundID)
	assert.Equal(t, "35.98", body.Refund.Amount)
}

func TestWorkflowErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code apporder.Code
		want int
	}{
		{apporder.CodeEmptyCart, http.StatusBadRequest},
		{apporder.CodeInvalidStatus, http.StatusBadRequest},
		{apporder.CodeCannotCancel, http.StatusConflict},
		{apporder.CodeInsufficientStock, http.StatusConflict},
		{apporder.CodeProductUnavailable, http.StatusConflict},
		{apporder.CodeAddressNotFound, http.StatusNotFound},
		{apporder.CodeOrderNotFound, http.StatusNotFound},
		{apporder.CodePaymentInfoMissing, http.StatusNotFound},
		{apporder.CodePaymentFailed, http.StatusPaymentRequired},
		{apporder.CodeRefundFailed, http.StatusPaymentRequired},
	}

	token := signToken(t, "cust-1", "customer")
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			wf := &stubWorkflow{createErr: &apporder.Error{Code: tc.code, Message: "rejected"}}
			router := newRouter(wf)

			w := doRequest(router, http.MethodPost, "/api/orders", token,
				`{"address_id":"a6a7a8a9-0000-0000-0000-000000000001","payment_method":"cash"}`)
			assert.Equal(t, tc.want, w.Code)

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(tc.code), body.Error.Code)
		})
	}
}

func TestUnexpectedErrorIsOpaque(t *testing.T) {
	wf := &stubWorkflow{createErr: assert.AnError}
	router := newRouter(wf)

	w := doRequest(router, http.MethodPost, "/api/orders", signToken(t, "cust-1", "customer"),
		`{"address_id":"a6a7a8a9-0000-0000-0000-000000000001","payment_method":"cash"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestListOrders(t *testing.T) {
	router := newRouter(&stubWorkflow{})

	w := doRequest(router, http.MethodGet, "/api/orders", signToken(t, "cust-1", "customer"), "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Orders []struct {
			ID    string `json:"id"`
			Total string `json:"total"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Orders, 1)
	assert.Equal(t, "ord-1", body.Orders[0].ID)
	assert.Equal(t, "35.98", body.Orders[0].Total)
}
