package webhooks

import (
	"context"
	"net/http"

	"github.com/kavindu-dev/furnicraft-backend/api/responses"
	"github.com/kavindu-dev/furnicraft-backend/internal/payhere"
	pkgerrors "github.com/kavindu-dev/furnicraft-backend/pkg/errors"
	"github.com/kavindu-dev/furnicraft-backend/pkg/logger"
)

// PayHereNotifyService is satisfied by the orders service.
type PayHereNotifyService interface {
	ApplyNotification(ctx context.Context, n payhere.Notification) error
}

// PayHereNotify receives the gateway's server-to-server payment callback.
// PayHere posts application/x-www-form-urlencoded and retries on non-2xx, so
// the handler answers 200 once the notification has been applied.
func PayHereNotify(svc PayHereNotifyService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		if err := r.ParseForm(); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed form payload"))
			return
		}

		notification := payhere.Notification{
			MerchantID:      r.PostFormValue("merchant_id"),
			OrderID:         r.PostFormValue("order_id"),
			PaymentID:       r.PostFormValue("payment_id"),
			PayHereAmount:   r.PostFormValue("payhere_amount"),
			PayHereCurrency: r.PostFormValue("payhere_currency"),
			StatusCode:      r.PostFormValue("status_code"),
			MD5Sig:          r.PostFormValue("md5sig"),
		}

		if err := svc.ApplyNotification(ctx, notification); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}
