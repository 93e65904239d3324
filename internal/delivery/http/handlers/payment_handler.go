package handlers

import (
	"errors"
	"io"
	"net/http"

	paymentRequest "github.com/LavaJover/shvark-payment-service/internal/delivery/http/dto/payment/request"
	paymentResponse "github.com/LavaJover/shvark-payment-service/internal/delivery/http/dto/payment/response"
	"github.com/LavaJover/shvark-payment-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-payment-service/internal/usecase/dto/payment"
	usecase "github.com/LavaJover/shvark-payment-service/internal/usecase/payment"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	SignatureHeader = "X-Razorpay-Signature"
	EventIDHeader   = "X-Razorpay-Event-Id"
)

type PaymentHandler struct {
	uc usecase.PaymentUsecase
}

func NewPaymentHandler(uc usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	var req paymentRequest.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, paymentResponse.ErrorResponse{Message: "malformed request body"})
	}

	input := &paymentdto.CreateOrderInput{
		Amount:      req.Amount,
		UserID:      req.UserID,
		TripID:      req.TripID,
		QuotationID: req.QuotationID,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
	}
	if f := req.Financials; f != nil {
		input.Financials = paymentdto.FinancialInput{
			TaxPercentage:      f.TaxPercentage,
			TaxAmount:          f.TaxAmount,
			CouponCode:         f.CouponCode,
			CouponDiscount:     f.CouponDiscount,
			Discount:           f.Discount,
			AdditionalDiscount: f.AdditionalDiscount,
			FinalAmount:        f.FinalAmount,
		}
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, paymentResponse.CreateOrderResponse{
		Success:     true,
		OrderID:     out.OrderID,
		Amount:      out.Amount,
		Currency:    out.Currency,
		KeyID:       out.KeyID,
		BookingID:   out.BookingID,
		BookingCode: out.BookingCode,
	})
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req paymentRequest.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, paymentResponse.ErrorResponse{Message: "malformed request body"})
	}

	out, err := h.uc.VerifyPayment(c.Request().Context(), &paymentdto.VerifyPaymentInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, paymentResponse.VerifyPaymentResponse{
		Success:       out.Verified,
		PaymentStatus: string(out.PaymentStatus),
		BookingStatus: string(out.BookingStatus),
	})
}

// Webhook acknowledges as soon as the signature checks out and the body is
// queued. The body is read raw: the signature covers its exact bytes.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, paymentResponse.ErrorResponse{Message: "unreadable request body"})
	}

	eventID, err := h.uc.AcceptWebhook(c.Request().Context(), &paymentdto.WebhookInput{
		EventID:   c.Request().Header.Get(EventIDHeader),
		Signature: c.Request().Header.Get(SignatureHeader),
		Body:      body,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, paymentResponse.WebhookResponse{
		Success: true,
		EventID: eventID,
	})
}

func (h *PaymentHandler) GetBooking(c echo.Context) error {
	out, err := h.uc.GetBookingByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return writeError(c, err)
	}

	b := out.Booking
	resp := paymentResponse.BookingResponse{
		Success: true,
		Booking: paymentResponse.BookingView{
			ID:          b.ID,
			Code:        b.Code,
			UserID:      b.UserID,
			TripID:      b.TripID,
			QuotationID: b.QuotationID,
			Status:      string(b.Status),
			Financials: paymentResponse.FinancialsView{
				Amount:             b.Financials.Amount,
				Currency:           b.Financials.Currency,
				TaxPercentage:      b.Financials.TaxPercentage,
				TaxAmount:          b.Financials.TaxAmount,
				CouponCode:         b.Financials.CouponCode,
				CouponDiscount:     b.Financials.CouponDiscount,
				Discount:           b.Financials.Discount,
				AdditionalDiscount: b.Financials.AdditionalDiscount,
				FinalAmount:        b.Financials.FinalAmount,
			},
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		},
	}
	if p := out.Payment; p != nil {
		resp.Payment = &paymentResponse.PaymentView{
			ID:             p.ID,
			Status:         string(p.Status),
			Amount:         p.Amount,
			Currency:       p.Currency,
			Mode:           string(p.Mode),
			GatewayOrderID: p.Gateway.OrderID,
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
		}
		if p.Gateway.PaymentID != nil {
			resp.Payment.GatewayPaymentID = *p.Gateway.PaymentID
		}
		if p.Refund != nil {
			resp.Payment.RefundID = p.Refund.ID
			resp.Payment.RefundAmount = p.Refund.Amount
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// writeError maps domain errors to status codes. Internal failures are not
// echoed back to the caller.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrSignatureMismatch):
		status, message = http.StatusBadRequest, "signature mismatch"
	case errors.Is(err, domain.ErrRecordNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrGatewayUnavailable):
		message = "payment gateway unavailable"
	case errors.Is(err, domain.ErrQueueUnavailable):
		message = "could not accept event"
	}

	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Path()).Error("request failed")
	}

	return c.JSON(status, paymentResponse.ErrorResponse{Message: message})
}
