package controllers

import (
	"net/http"

	"github.com/angelmondragon/greenhouse-storefront/api/middleware"
	"github.com/angelmondragon/greenhouse-storefront/api/responses"
)

// Ping echoes the resolved device and identity, which clients use to check their headers.
func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{"status": "ok"}
		if device := middleware.DeviceIDFromContext(r.Context()); device != "" {
			payload["device_id"] = device
		}
		if user := middleware.UserIDFromContext(r.Context()); user > 0 {
			payload["user_id"] = user
		}
		responses.WriteSuccess(w, payload)
	}
}
