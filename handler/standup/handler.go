// Package standup wires Discord events and the /standup command to the
// standup service.
package standup

import (
	"context"

	"standup/handler"
	"standup/model"
	core "standup/standup"

	"go.uber.org/zap"
)

// ReportLister reads archived reports.
type ReportLister interface {
	ListReports(ctx context.Context, participantID string, limit int) ([]model.Report, error)
}

// Handler holds what the event and command handlers need.
type Handler struct {
	service *core.Service
	reports ReportLister
	auth    model.Auth
	logger  *zap.Logger
}

// New creates a Handler. reports may be nil when the archive is disabled.
func New(service *core.Service, reports ReportLister, auth model.Auth, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, reports: reports, auth: auth, logger: logger}
}

// RegisterHandlers registers the /standup command on the router.
func (h *Handler) RegisterHandlers(r *handler.Router) {
	r.AddCommandHandler(standupCommandName, h.StandupCommandHandler)
}
