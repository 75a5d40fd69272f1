package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/soportehq/support-metrics/internal/core/domain"
	"github.com/soportehq/support-metrics/internal/core/ports"
)

// MockTicketRepository is a mock implementation of ports.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{}
}

func (m *MockTicketRepository) Fetch(ctx context.Context, filter ports.TicketFilter) ([]domain.Ticket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

// MockReportService is a mock implementation of ports.ReportService
type MockReportService struct {
	mock.Mock
}

func NewMockReportService() *MockReportService {
	return &MockReportService{}
}

func (m *MockReportService) AssembleReport(ctx context.Context, params ports.AssembleReportParams) (*domain.ReportSnapshot, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportSnapshot), args.Error(1)
}

// MockEscalationService is a mock implementation of ports.EscalationService
type MockEscalationService struct {
	mock.Mock
}

func NewMockEscalationService() *MockEscalationService {
	return &MockEscalationService{}
}

func (m *MockEscalationService) PendingOver(ctx context.Context, days float64, now time.Time) ([]domain.PendingTicket, error) {
	args := m.Called(ctx, days, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingTicket), args.Error(1)
}

func (m *MockEscalationService) SLABreaches(ctx context.Context, thresholdHours float64) ([]domain.SLABreach, error) {
	args := m.Called(ctx, thresholdHours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SLABreach), args.Error(1)
}

func (m *MockEscalationService) SLAOverview(ctx context.Context, thresholdHours float64) (domain.SLAOverview, error) {
	args := m.Called(ctx, thresholdHours)
	return args.Get(0).(domain.SLAOverview), args.Error(1)
}

func (m *MockEscalationService) Sweep(ctx context.Context, now time.Time) error {
	args := m.Called(ctx, now)
	return args.Error(0)
}

func (m *MockEscalationService) Shutdown() {
	m.Called()
}

// MockNotifier is a mock implementation of ports.Notifier
type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, event domain.AlertEvent) {
	m.Called(ctx, event)
}

// MockAlertBroadcaster is a mock implementation of ports.AlertBroadcaster
type MockAlertBroadcaster struct {
	mock.Mock
}

func NewMockAlertBroadcaster() *MockAlertBroadcaster {
	return &MockAlertBroadcaster{}
}

func (m *MockAlertBroadcaster) Broadcast(event domain.AlertEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockExporter is a mock implementation of ports.Exporter
type MockExporter struct {
	mock.Mock
}

func NewMockExporter() *MockExporter {
	return &MockExporter{}
}

func (m *MockExporter) Export(ctx context.Context, report *domain.ReportSnapshot) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
