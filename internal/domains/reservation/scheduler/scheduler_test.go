package scheduler

import (
	"context"
	"errors"
	otelMocks "rental/infras/otel/mocks"
	"rental/internal/domains/reservation/mocks"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestScheduler_RunsUntilStopped(t *testing.T) {
	ctrl := gomock.NewController(t)
	reservation := mocks.NewMockReservationService(ctrl)

	today := time.Date(2030, 3, 10, 8, 0, 0, 0, time.UTC)

	var ticks atomic.Int32

	reservation.EXPECT().
		CompleteElapsed(gomock.Any(), today).
		DoAndReturn(func(context.Context, time.Time) (int, error) {
			if ticks.Add(1) == 2 {
				return 0, errors.New("database unavailable")
			}

			return 1, nil
		}).
		MinTimes(3)

	s := newScheduler(reservation, otelMocks.NewOtel(), 5*time.Millisecond, true, func() time.Time { return today })

	s.Start(context.Background())
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	s.Stop()

	stopped := ticks.Load()

	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, stopped, ticks.Load(), "no ticks after Stop")

	s.Stop()
}

func TestScheduler_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	reservation := mocks.NewMockReservationService(ctrl)

	s := newScheduler(reservation, otelMocks.NewOtel(), time.Millisecond, false, time.Now)

	s.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	s.Stop()
}
