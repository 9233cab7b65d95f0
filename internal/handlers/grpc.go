package handlers

import (
	"context"
	"time"

	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/service"
	"github.com/umalmyha/insurance-crm/rpc"
)

// ReminderGrpcHandler is gRPC handler for reminder service
type ReminderGrpcHandler struct {
	dashboardSvc service.DashboardService
}

// NewReminderGrpcHandler builds new ReminderGrpcHandler
func NewReminderGrpcHandler(dashboardSvc service.DashboardService) *ReminderGrpcHandler {
	return &ReminderGrpcHandler{dashboardSvc: dashboardSvc}
}

// ListReminders returns reminders at requested moment
func (h *ReminderGrpcHandler) ListReminders(ctx context.Context, req *rpc.ListRemindersRequest) (*rpc.ListRemindersResponse, error) {
	at, err := parseMoment(req.At)
	if err != nil {
		return nil, err
	}

	d, err := h.dashboardSvc.Dashboard(ctx, at)
	if err != nil {
		return nil, err
	}

	reminders := d.Reminders
	if reminders == nil {
		reminders = make([]model.Reminder, 0)
	}

	return &rpc.ListRemindersResponse{
		At:        d.At.Format(time.RFC3339),
		Reminders: reminders,
	}, nil
}

// GetDashboardStats returns statistics at requested moment
func (h *ReminderGrpcHandler) GetDashboardStats(ctx context.Context, req *rpc.DashboardStatsRequest) (*rpc.DashboardStatsResponse, error) {
	at, err := parseMoment(req.At)
	if err != nil {
		return nil, err
	}

	d, err := h.dashboardSvc.Dashboard(ctx, at)
	if err != nil {
		return nil, err
	}

	return &rpc.DashboardStatsResponse{
		At:    d.At.Format(time.RFC3339),
		Stats: d.Stats,
	}, nil
}
