package frontdesk

import (
	"context"
	"fmt"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockFrontDeskClient struct {
	mock.Mock
}

func (m *MockFrontDeskClient) TodayAppointments(ctx context.Context, date string) ([]responses.Appointment, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]responses.Appointment), args.Error(1)
}

func (m *MockFrontDeskClient) CheckIn(ctx context.Context, appointmentID string, request *requests.CheckIn) (*responses.Appointment, error) {
	args := m.Called(ctx, appointmentID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.Appointment), args.Error(1)
}

func (m *MockFrontDeskClient) DailyStats(ctx context.Context, date string) (*responses.DailyStats, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.DailyStats), args.Error(1)
}

// 03:00 UTC is still the previous day in Mexico City.
var testNow = time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)

func newTestFrontDeskUsecase(client *MockFrontDeskClient) *frontDeskUsecase {
	return &frontDeskUsecase{
		FrontDeskClient: client,
		InternalConfig:  &config.InternalConfig{App: config.App{Timezone: "America/Mexico_City"}},
		Log:             zap.NewNop(),
		now:             func() time.Time { return testNow },
	}
}

func TestTodayAppointments(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the clinic's local date and sorts by start", func(t *testing.T) {
		client := new(MockFrontDeskClient)
		client.On("TodayAppointments", mock.Anything, "2026-03-01").Return([]responses.Appointment{
			{ID: "b", StartTime: "2026-03-01T11:00:00-06:00"},
			{ID: "a", StartTime: "2026-03-01T09:00:00-06:00"},
		}, nil)

		appointments, err := newTestFrontDeskUsecase(client).TodayAppointments(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "a", appointments[0].ID)
		assert.Equal(t, "b", appointments[1].ID)
	})

	t.Run("malformed date is a bad request", func(t *testing.T) {
		client := new(MockFrontDeskClient)

		_, err := newTestFrontDeskUsecase(client).TodayAppointments(ctx, "02/03/2026")
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		client.AssertNotCalled(t, "TodayAppointments", mock.Anything, mock.Anything)
	})
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("combines appointments and stats", func(t *testing.T) {
		client := new(MockFrontDeskClient)
		client.On("TodayAppointments", mock.Anything, "2026-03-02").Return([]responses.Appointment{{ID: "a"}}, nil)
		client.On("DailyStats", mock.Anything, "2026-03-02").Return(&responses.DailyStats{TotalAppointments: 1, CheckedIn: 1}, nil)

		dashboard, err := newTestFrontDeskUsecase(client).Dashboard(ctx, "2026-03-02")
		require.NoError(t, err)
		assert.Len(t, dashboard.Appointments, 1)
		assert.Equal(t, 1, dashboard.Stats.CheckedIn)
		assert.Equal(t, "2026-03-02", dashboard.Stats.Date)
	})

	t.Run("one failing call fails the dashboard", func(t *testing.T) {
		client := new(MockFrontDeskClient)
		backendErr := exceptions.ErrBackendUnavailable(fmt.Errorf("connection refused"), "frontdesk")
		client.On("TodayAppointments", mock.Anything, mock.Anything).Return([]responses.Appointment{}, nil)
		client.On("DailyStats", mock.Anything, mock.Anything).Return(nil, backendErr)

		_, err := newTestFrontDeskUsecase(client).Dashboard(ctx, "2026-03-02")
		assert.ErrorIs(t, err, backendErr)
	})
}

func TestCheckIn(t *testing.T) {
	client := new(MockFrontDeskClient)
	request := &requests.CheckIn{Notes: "llegó temprano"}
	client.On("CheckIn", mock.Anything, "apt-1", request).Return(&responses.Appointment{ID: "apt-1", Status: "checked_in"}, nil)

	appointment, err := newTestFrontDeskUsecase(client).CheckIn(context.Background(), "apt-1", request)
	require.NoError(t, err)
	assert.Equal(t, "checked_in", appointment.Status)
}
