package model_test

import (
	"rental/internal/domains/reservation/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransition(t *testing.T) {
	tests := []struct {
		name        string
		from        model.Status
		to          model.Status
		wantChanged bool
		wantErr     bool
	}{
		{name: "pending to confirmed", from: model.StatusPending, to: model.StatusConfirmed, wantChanged: true},
		{name: "pending to cancelled", from: model.StatusPending, to: model.StatusCancelled, wantChanged: true},
		{name: "confirmed to completed", from: model.StatusConfirmed, to: model.StatusCompleted, wantChanged: true},
		{name: "same state is a no-op", from: model.StatusConfirmed, to: model.StatusConfirmed},
		{name: "confirmed cannot go back", from: model.StatusConfirmed, to: model.StatusPending, wantErr: true},
		{name: "cancelled is final", from: model.StatusCancelled, to: model.StatusConfirmed, wantErr: true},
		{name: "completed is final", from: model.StatusCompleted, to: model.StatusCompleted, wantErr: true},
		{name: "unknown target", from: model.StatusPending, to: model.Status("archived"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, err := tt.from.Transition(tt.to)

			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrInvalidTransition)
				assert.False(t, changed)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestReservationIsActive(t *testing.T) {
	deletedAt := time.Date(2030, 3, 2, 8, 0, 0, 0, time.UTC)

	assert.True(t, model.Reservation{Status: model.StatusPending}.IsActive())
	assert.True(t, model.Reservation{Status: model.StatusCompleted}.IsActive())
	assert.False(t, model.Reservation{Status: model.StatusCancelled}.IsActive())
	assert.False(t, model.Reservation{Status: model.StatusConfirmed, DeletedAt: &deletedAt}.IsActive())
}

func TestReservationJoinQuery(t *testing.T) {
	assert.Equal(t,
		"JOIN listings ON listings.id = reservations.listing_id LEFT JOIN users ON users.id = reservations.requester_id",
		model.Reservation{}.GetJoinQuery(),
	)
}
