package app

import (
	"errors"
	"net/http"

	"github.com/cashplan/cashplan/internal/config"
	"github.com/cashplan/cashplan/pkg/profile"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-Profile-Id header into context for downstream services
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			log.Debug("Propagating profile ID header")

			profileIdHeader := req.Header.Get("X-Profile-Id")
			ctx := req.Context()

			if profileIdHeader != "" {
				p, err := deps.ProfileService.GetProfileByUid(ctx, profileIdHeader)
				if err != nil {
					if errors.Is(err, profile.ErrProfileNotFound) {
						log.Debugf("profile not found: %s", profileIdHeader)
						http.Error(w, "profile not found", http.StatusForbidden)
						return
					} else {
						log.Errorf("failed to get profile: %v", err)
						http.Error(w, err.Error(), http.StatusBadRequest)
						return
					}
				} else {
					log.Debugf("profile found: %s", p.Uid)
					ctx = profile.WithProfile(ctx, p)
				}
			}
			log.Debug("Propagated profile ID header")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
