package rpc

import (
	"context"

	"github.com/umalmyha/insurance-crm/internal/model"
	"google.golang.org/grpc"
)

// ReminderServiceName is full name of reminder service
const ReminderServiceName = "crm.ReminderService"

const (
	listRemindersMethod     = "/" + ReminderServiceName + "/ListReminders"
	getDashboardStatsMethod = "/" + ReminderServiceName + "/GetDashboardStats"
)

// ListRemindersRequest asks for reminders at moment At (RFC3339), empty means now
type ListRemindersRequest struct {
	At string `json:"at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// ListRemindersResponse carries reminders and moment they were computed at
type ListRemindersResponse struct {
	At        string           `json:"at"`
	Reminders []model.Reminder `json:"reminders"`
}

// DashboardStatsRequest asks for statistics at moment At (RFC3339), empty means now
type DashboardStatsRequest struct {
	At string `json:"at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// DashboardStatsResponse carries statistics and moment they were computed at
type DashboardStatsResponse struct {
	At    string               `json:"at"`
	Stats model.DashboardStats `json:"stats"`
}

// ReminderServiceServer is server API of reminder service
type ReminderServiceServer interface {
	ListReminders(context.Context, *ListRemindersRequest) (*ListRemindersResponse, error)
	GetDashboardStats(context.Context, *DashboardStatsRequest) (*DashboardStatsResponse, error)
}

// ReminderServiceDesc is grpc.ServiceDesc for reminder service
var ReminderServiceDesc = grpc.ServiceDesc{
	ServiceName: ReminderServiceName,
	HandlerType: (*ReminderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListReminders", Handler: listRemindersHandler},
		{MethodName: "GetDashboardStats", Handler: getDashboardStatsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "reminder.json",
}

// RegisterReminderServiceServer registers srv on s
func RegisterReminderServiceServer(s grpc.ServiceRegistrar, srv ReminderServiceServer) {
	s.RegisterService(&ReminderServiceDesc, srv)
}

func listRemindersHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListRemindersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ReminderServiceServer).ListReminders(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listRemindersMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReminderServiceServer).ListReminders(ctx, req.(*ListRemindersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getDashboardStatsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DashboardStatsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ReminderServiceServer).GetDashboardStats(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getDashboardStatsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReminderServiceServer).GetDashboardStats(ctx, req.(*DashboardStatsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ReminderServiceClient is client API of reminder service
type ReminderServiceClient interface {
	ListReminders(ctx context.Context, in *ListRemindersRequest, opts ...grpc.CallOption) (*ListRemindersResponse, error)
	GetDashboardStats(ctx context.Context, in *DashboardStatsRequest, opts ...grpc.CallOption) (*DashboardStatsResponse, error)
}

type reminderServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewReminderServiceClient builds ReminderServiceClient on top of connection
func NewReminderServiceClient(cc grpc.ClientConnInterface) ReminderServiceClient {
	return &reminderServiceClient{cc: cc}
}

func (c *reminderServiceClient) ListReminders(ctx context.Context, in *ListRemindersRequest, opts ...grpc.CallOption) (*ListRemindersResponse, error) {
	out := new(ListRemindersResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, listRemindersMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reminderServiceClient) GetDashboardStats(ctx context.Context, in *DashboardStatsRequest, opts ...grpc.CallOption) (*DashboardStatsResponse, error) {
	out := new(DashboardStatsResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, getDashboardStatsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
