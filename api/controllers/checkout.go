package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kavindu-dev/furnicraft-backend/api/responses"
	"github.com/kavindu-dev/furnicraft-backend/api/validators"
	ordersvc "github.com/kavindu-dev/furnicraft-backend/internal/orders"
	"github.com/kavindu-dev/furnicraft-backend/internal/payhere"
	"github.com/kavindu-dev/furnicraft-backend/pkg/logger"
)

type checkoutRequest struct {
	OrderID uuid.UUID `json:"orderId" validate:"required"`
}

type checkoutResponse struct {
	CheckoutURL string                   `json:"checkoutUrl"`
	Payload     *payhere.CheckoutPayload `json:"payload"`
}

// InitiateCheckout signs an existing pending order for the gateway. The
// storefront posts the returned payload to checkoutUrl as a form.
func InitiateCheckout(svc ordersvc.Service, adapter *payhere.Adapter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := ""
		if order.Email != nil {
			email = *order.Email
		}
		address := order.AddressLine1
		if order.AddressLine2 != nil && strings.TrimSpace(*order.AddressLine2) != "" {
			address += ", " + *order.AddressLine2
		}

		checkout, err := adapter.BuildCheckout(payhere.CheckoutRequest{
			OrderID:   order.ID.String(),
			Amount:    order.Total,
			FirstName: order.CustomerFirstName,
			LastName:  order.CustomerLastName,
			Email:     email,
			Phone:     order.Phone,
			Address:   address,
			City:      order.City,
			Items:     order.ProductName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{
			CheckoutURL: adapter.CheckoutURL(),
			Payload:     checkout,
		})
	}
}
