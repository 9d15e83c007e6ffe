package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/greenhouse-storefront/api/responses"
	pkgerrors "github.com/angelmondragon/greenhouse-storefront/pkg/errors"
	"github.com/angelmondragon/greenhouse-storefront/pkg/logger"
)

// DeviceIDHeader carries the client-generated device identifier that
// partitions cart storage.
const DeviceIDHeader = "X-Device-Id"

// DeviceContext requires a UUID device id and stores its canonical form on the context.
func DeviceContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(DeviceIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, DeviceIDHeader+" header required"))
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, DeviceIDHeader+" must be a UUID"))
				return
			}

			ctx := WithDeviceID(r.Context(), id.String())
			if logg != nil {
				ctx = logg.WithDeviceID(ctx, id.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
