package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"indiadoors-be/internal/auth"
	"indiadoors-be/internal/notify"
	"indiadoors-be/internal/order"
	"indiadoors-be/internal/payment"
	"indiadoors-be/internal/payment/verify"
	"indiadoors-be/internal/user"

	"github.com/shopspring/decimal"
)

type adminNotifier interface {
	NotifyAdmin(ctx context.Context, gatewayOrderID string) notify.Outcome
}

type Handler struct {
	users    user.Service
	orders   order.Service
	verifier verify.Service
	notifier adminNotifier
}

func NewHandler(users user.Service, orders order.Service, verifier verify.Service, notifier adminNotifier) *Handler {
	return &Handler{
		users:    users,
		orders:   orders,
		verifier: verifier,
		notifier: notifier,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.users.Register(r.Context(), req.Username, req.Email, req.Phone, req.Password)
	if errors.Is(err, user.ErrEmailExists) {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	setAccessCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	setAccessCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type checkoutItemRequest struct {
	ItemName   string          `json:"item_name"`
	ItemAmount decimal.Decimal `json:"item_amount"`
	Quantity   int             `json:"quantity"`

	WidthIn  *decimal.Decimal `json:"width_in,omitempty"`
	HeightIn *decimal.Decimal `json:"height_in,omitempty"`

	FrontWrap         *string          `json:"front_wrap,omitempty"`
	BackWrap          *string          `json:"back_wrap,omitempty"`
	FrontWrapPrice    *decimal.Decimal `json:"front_wrap_price,omitempty"`
	BackWrapPrice     *decimal.Decimal `json:"back_wrap_price,omitempty"`
	FrontCarving      *string          `json:"front_carving,omitempty"`
	BackCarving       *string          `json:"back_carving,omitempty"`
	FrontCarvingPrice *decimal.Decimal `json:"front_carving_price,omitempty"`
	BackCarvingPrice  *decimal.Decimal `json:"back_carving_price,omitempty"`
}

type checkoutRequest struct {
	Items             []checkoutItemRequest `json:"items"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	ShippingFee       decimal.Decimal       `json:"shipping_fee"`
	ShippingSelection string                `json:"shipping_selection"`
	ShippingAddress   map[string]string     `json:"shipping_address"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CallerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := order.CheckoutInput{
		TotalAmount:       req.TotalAmount,
		ShippingFee:       req.ShippingFee,
		ShippingSelection: req.ShippingSelection,
		ShippingAddress:   req.ShippingAddress,
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, order.CheckoutItemInput{
			ItemName:          it.ItemName,
			ItemAmount:        it.ItemAmount,
			Quantity:          it.Quantity,
			WidthIn:           it.WidthIn,
			HeightIn:          it.HeightIn,
			FrontWrap:         it.FrontWrap,
			BackWrap:          it.BackWrap,
			FrontWrapPrice:    it.FrontWrapPrice,
			BackWrapPrice:     it.BackWrapPrice,
			FrontCarving:      it.FrontCarving,
			BackCarving:       it.BackCarving,
			FrontCarvingPrice: it.FrontCarvingPrice,
			BackCarvingPrice:  it.BackCarvingPrice,
		})
	}

	gatewayOrder, err := h.orders.Checkout(r.Context(), userID, input)
	switch {
	case errors.Is(err, order.ErrEmptyCart), errors.Is(err, order.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, order.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"orderId":  gatewayOrder.ID,
		"amount":   gatewayOrder.Amount,
		"currency": gatewayOrder.Currency,
	})
}

type verifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.verifier.Confirm(r.Context(), verify.Input{
		GatewayOrderID:   req.RazorpayOrderID,
		GatewayPaymentID: req.RazorpayPaymentID,
		GatewaySignature: req.RazorpaySignature,
	})
	switch {
	case errors.Is(err, verify.ErrMissingFields):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, payment.ErrInvalidSignature):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid signature",
		})
		return
	case errors.Is(err, payment.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "unknown payment")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}

	resp := map[string]interface{}{
		"success":    true,
		"orderId":    res.OrderID,
		"trackingId": res.TrackingID,
	}
	if res.Invoice != nil {
		resp["invoice"] = map[string]string{
			"invoiceNo": res.Invoice.InvoiceNo,
			"pdfPath":   res.Invoice.PDFPath,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CallerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	orderID, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	isAdmin := auth.CallerType(r.Context()) == "Admin"
	o, err := h.orders.GetOrderDetail(r.Context(), userID, uint(orderID), isAdmin)
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, order.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "not your order")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	writeJSON(w, http.StatusOK, orderResponse(o))
}

// NotifyAdmin re-sends the admin confirmation email for an already paid
// order, for when the automatic send after verification was lost.
func (h *Handler) NotifyAdmin(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseUint(r.PathValue("orderId"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	trackingID, err := h.orders.GetTrackingID(r.Context(), uint(orderID))
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, order.ErrNoTrackingID):
		writeError(w, http.StatusConflict, "order has no gateway order yet")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to resolve order")
		return
	}

	outcome := h.notifier.NotifyAdmin(r.Context(), trackingID)
	status := http.StatusOK
	if !outcome.OK {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]interface{}{
		"ok": outcome.OK,
		"result": map[string]string{
			"step":   outcome.Step,
			"detail": outcome.Detail,
		},
	})
}

func orderResponse(o *order.Order) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]interface{}{
			"item_name":   it.ItemName,
			"item_amount": it.ItemAmount,
			"quantity":    it.Quantity,
			"variant":     it.VariantText(),
			"line_total":  it.LineTotal(),
		})
	}

	resp := map[string]interface{}{
		"id":             o.ID,
		"total_amount":   o.TotalAmount,
		"shipping_fee":   o.ShippingFee,
		"currency":       o.Currency,
		"order_status":   o.OrderStatus,
		"payment_status": o.PaymentStatus,
		"payment_method": o.PaymentMethod,
		"order_date":     o.OrderDate,
		"items":          items,
	}
	if o.ShippingAddressText != nil {
		resp["shipping_address"] = *o.ShippingAddressText
	}
	if o.BillingAddressText != nil {
		resp["billing_address"] = *o.BillingAddressText
	}
	if o.TrackingID != nil {
		resp["tracking_id"] = *o.TrackingID
	}
	return resp
}
