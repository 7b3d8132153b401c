package availability

import (
	"context"
	"testing"
	"time"

	"tourbook/internal/shared/testutil"
	"tourbook/internal/tours"
	"tourbook/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTours struct {
	tour *tours.Tour
}

func (s stubTours) Get(_ context.Context, id uuid.UUID) (*tours.Tour, error) {
	if s.tour == nil || s.tour.ID != id {
		return nil, tours.ErrTourNotFound
	}
	return s.tour, nil
}

func (s stubTours) AuthorizeManage(ctx context.Context, actor users.Actor, id uuid.UUID) (*tours.Tour, error) {
	tour, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || tour.IsOwnedBy(actor.ID) {
		return tour, nil
	}
	return nil, tours.ErrNotTourOwner
}

func newTestService(t *testing.T, tour *tours.Tour) *service {
	db := testutil.NewSQLiteDB(t, &Slot{})
	svc := NewService(NewRepository(db), stubTours{tour: tour}).(*service)
	svc.now = func() time.Time { return time.Date(2030, 1, 10, 15, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateSlot(t *testing.T) {
	guideID := uuid.New()
	tour := &tours.Tour{ID: uuid.New(), GuideID: guideID, MaxGroupSize: 12, IsActive: true}
	svc := newTestService(t, tour)
	ctx := context.Background()
	owner := users.Actor{ID: guideID, Role: users.RoleGuide}
	start := "09:30"

	slot, err := svc.Create(ctx, owner, tour.ID, &CreateSlotRequest{Date: "2030-02-01", StartTime: &start, AvailableSpots: 5})
	require.NoError(t, err)
	assert.Equal(t, "2030-02-01", slot.Date)
	assert.Equal(t, 5, slot.RemainingSpots)

	_, err = svc.Create(ctx, owner, tour.ID, &CreateSlotRequest{Date: "2030-02-01", AvailableSpots: 13})
	assert.ErrorIs(t, err, ErrSpotsExceedGroupSize)

	_, err = svc.Create(ctx, owner, tour.ID, &CreateSlotRequest{Date: "2030-01-09", AvailableSpots: 2})
	assert.ErrorIs(t, err, ErrDateInPast)

	_, err = svc.Create(ctx, users.Actor{ID: uuid.New(), Role: users.RoleGuide}, tour.ID, &CreateSlotRequest{Date: "2030-02-01", AvailableSpots: 2})
	assert.ErrorIs(t, err, tours.ErrNotTourOwner)

	_, err = svc.Create(ctx, users.Actor{ID: uuid.New(), Role: users.RoleAdmin}, tour.ID, &CreateSlotRequest{Date: "2030-01-10", AvailableSpots: 2})
	assert.NoError(t, err, "today is still bookable")
}

func TestListAndDeleteSlot(t *testing.T) {
	guideID := uuid.New()
	tour := &tours.Tour{ID: uuid.New(), GuideID: guideID, MaxGroupSize: 12, IsActive: true}
	svc := newTestService(t, tour)
	ctx := context.Background()
	owner := users.Actor{ID: guideID, Role: users.RoleGuide}

	first, err := svc.Create(ctx, owner, tour.ID, &CreateSlotRequest{Date: "2030-03-01", AvailableSpots: 4})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, tour.ID, &CreateSlotRequest{Date: "2030-02-01", AvailableSpots: 6})
	require.NoError(t, err)

	slots, err := svc.List(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "2030-02-01", slots[0].Date, "ordered by date")

	assert.ErrorIs(t, svc.Delete(ctx, owner, tour.ID, uuid.New()), ErrSlotNotFound)
	require.NoError(t, svc.Delete(ctx, owner, tour.ID, first.ID))

	slots, err = svc.List(ctx, tour.ID)
	require.NoError(t, err)
	assert.Len(t, slots, 1)

	_, err = svc.List(ctx, uuid.New())
	assert.ErrorIs(t, err, tours.ErrTourNotFound)
}

func TestMaxAvailableSpots(t *testing.T) {
	guideID := uuid.New()
	tour := &tours.Tour{ID: uuid.New(), GuideID: guideID, MaxGroupSize: 12, IsActive: true}
	svc := newTestService(t, tour)
	ctx := context.Background()
	owner := users.Actor{ID: guideID, Role: users.RoleGuide}

	largest, err := svc.repo.MaxAvailableSpots(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, largest)

	for _, spots := range []int{3, 8, 5} {
		_, err := svc.Create(ctx, owner, tour.ID, &CreateSlotRequest{Date: "2030-02-01", AvailableSpots: spots})
		require.NoError(t, err)
	}

	largest, err = svc.repo.MaxAvailableSpots(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, largest)

	largest, err = svc.repo.MaxAvailableSpots(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, largest)
}
