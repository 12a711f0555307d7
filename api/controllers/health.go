package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/petfeliz/storefront-backend/api/responses"
	"github.com/petfeliz/storefront-backend/pkg/config"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/logger"
)

// Probe checks one dependency for readiness.
type Probe struct {
	Name  string
	Check func(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PetFeliz-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and reports all failures at once.
func HealthReady(cfg *config.Config, logg *logger.Logger, probes ...Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PetFeliz-Env", cfg.App.Env)

		var combined error
		failing := []string{}
		for _, probe := range probes {
			if probe.Check == nil {
				continue
			}
			if err := probe.Check(r.Context()); err != nil {
				combined = multierr.Append(combined, err)
				failing = append(failing, probe.Name)
			}
		}

		if combined != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed").
				WithDetails(map[string]any{"failing": failing})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
