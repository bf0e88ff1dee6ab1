package middleware

import (
	"errors"
	"net/http"

	"seatsaga/internal/admission"
	apperrors "seatsaga/pkg/errors"
	httputil "seatsaga/pkg/http"
	"seatsaga/pkg/logger"
	"seatsaga/pkg/metrics"
)

// Admission lets a request through only while it holds a permit from ctrl.
// A saturated controller answers 429 immediately; the permit of an admitted
// request is released when the handler returns, panics included.
func Admission(ctrl *admission.Controller, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				metrics.SetAdmissionInFlight(ctrl.InFlight())
			}()

			err := ctrl.Do(func() error {
				metrics.SetAdmissionInFlight(ctrl.InFlight())
				next.ServeHTTP(w, r)
				return nil
			})
			if errors.Is(err, admission.ErrSaturated) {
				metrics.RecordAdmissionRejected()
				log.Warn("Request rejected by admission control",
					"request_id", requestID(r),
					"path", r.URL.Path,
					"capacity", ctrl.Capacity(),
				)
				w.Header().Set("Retry-After", "1")
				_ = httputil.WriteError(w, apperrors.Saturated("API gateway saturated, try again later").WithDetails(map[string]any{
					"capacity": ctrl.Capacity(),
				}))
			}
		})
	}
}
