// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/xcalibur215/mmhub/internal/platform/constants"
	"github.com/xcalibur215/mmhub/internal/platform/respond"
)

// probeTimeout bounds each readiness dependency check.
const probeTimeout = 2 * time.Second

// Probe checks one backing dependency.
type Probe struct {
	// Name identifies the dependency in the readiness payload.
	Name string

	// Check returns nil when the dependency is reachable.
	Check func(ctx context.Context) error
}

type probeResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type healthHandler struct {
	probes []Probe
	logger *slog.Logger
}

// NewHealthHandlers creates the /health and /ready handlers.
//
// Probes run in order on every readiness request.
func NewHealthHandlers(logger *slog.Logger, probes ...Probe) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{probes: probes, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness handles GET /ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]probeResult, 0, len(handler.probes))
	ready := true

	for _, probe := range handler.probes {
		ctx, cancel := context.WithTimeout(request.Context(), probeTimeout)
		err := probe.Check(ctx)
		cancel()

		result := probeResult{Name: probe.Name, IsOK: err == nil}
		if err != nil {
			ready = false
			result.Error = err.Error()
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", probe.Name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, code, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}
