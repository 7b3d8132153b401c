package tours

import (
	"context"
	"testing"

	"tourbook/internal/shared/testutil"
	"tourbook/internal/users"
	"tourbook/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApproval map[uuid.UUID]bool

func (f fakeApproval) IsApproved(_ context.Context, id uuid.UUID) (bool, error) {
	return f[id], nil
}

// fakeSlots maps a tour to its largest slot size
type fakeSlots map[uuid.UUID]int

func (f fakeSlots) MaxAvailableSpots(_ context.Context, tourID uuid.UUID) (int, error) {
	return f[tourID], nil
}

type fixture struct {
	svc      Service
	repo     Repository
	approval fakeApproval
	slots    fakeSlots
	mr       *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewSQLiteDB(t, &Tour{})
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := NewRepository(db)
	approval := fakeApproval{}
	slots := fakeSlots{}
	return &fixture{
		svc:      NewService(repo, approval, slots, cache.NewService(client)),
		repo:     repo,
		approval: approval,
		slots:    slots,
		mr:       mr,
	}
}

func sampleRequest() *CreateTourRequest {
	return &CreateTourRequest{
		Title:         "Alfama Food Walk",
		Location:      "Lisbon",
		DurationHours: 3,
		Price:         100,
		MaxGroupSize:  12,
	}
}

func TestCreate_RequiresApprovedGuide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guide := users.Actor{ID: uuid.New(), Role: users.RoleGuide}

	_, err := f.svc.Create(ctx, guide, sampleRequest())
	assert.ErrorIs(t, err, ErrGuideNotApproved)

	f.approval[guide.ID] = true
	tour, err := f.svc.Create(ctx, guide, sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, guide.ID, tour.GuideID)
	assert.True(t, tour.IsActive)

	_, err = f.svc.Create(ctx, users.Actor{ID: uuid.New(), Role: users.RoleUser}, sampleRequest())
	assert.ErrorIs(t, err, ErrNotTourOwner)
}

func TestCreate_AdminBypassesApproval(t *testing.T) {
	f := newFixture(t)

	tour, err := f.svc.Create(context.Background(), users.Actor{ID: uuid.New(), Role: users.RoleAdmin}, sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", tour.Location)
}

func TestUpdate_OwnershipEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := users.Actor{ID: uuid.New(), Role: users.RoleGuide}
	f.approval[owner.ID] = true

	tour, err := f.svc.Create(ctx, owner, sampleRequest())
	require.NoError(t, err)

	price := 120.0
	_, err = f.svc.Update(ctx, users.Actor{ID: uuid.New(), Role: users.RoleGuide}, tour.ID, &UpdateTourRequest{Price: &price})
	assert.ErrorIs(t, err, ErrNotTourOwner)

	updated, err := f.svc.Update(ctx, owner, tour.ID, &UpdateTourRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Price)

	_, err = f.svc.Update(ctx, owner, uuid.New(), &UpdateTourRequest{})
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestUpdate_GroupSizeCannotDropBelowExistingSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := users.Actor{ID: uuid.New(), Role: users.RoleGuide}
	f.approval[owner.ID] = true

	req := sampleRequest()
	req.MaxGroupSize = 10
	tour, err := f.svc.Create(ctx, owner, req)
	require.NoError(t, err)
	f.slots[tour.ID] = 8

	four := 4
	_, err = f.svc.Update(ctx, owner, tour.ID, &UpdateTourRequest{MaxGroupSize: &four})
	assert.ErrorIs(t, err, ErrGroupSizeBelowSlots)

	stored, err := f.repo.GetByID(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.MaxGroupSize)

	eight := 8
	updated, err := f.svc.Update(ctx, owner, tour.ID, &UpdateTourRequest{MaxGroupSize: &eight})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.MaxGroupSize)

	twenty := 20
	updated, err = f.svc.Update(ctx, owner, tour.ID, &UpdateTourRequest{MaxGroupSize: &twenty})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.MaxGroupSize)
}

func TestDeactivate_HidesFromCatalogueAndInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := users.Actor{ID: uuid.New(), Role: users.RoleAdmin}

	tour, err := f.svc.Create(ctx, admin, sampleRequest())
	require.NoError(t, err)

	got, err := f.svc.GetPublic(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, tour.ID, got.ID)

	list, err := f.svc.List(ctx, TourListQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Tours, 1)
	assert.NotEmpty(t, f.mr.Keys())

	require.NoError(t, f.svc.Deactivate(ctx, admin, tour.ID))

	_, err = f.svc.GetPublic(ctx, tour.ID)
	assert.ErrorIs(t, err, ErrTourNotFound)

	list, err = f.svc.List(ctx, TourListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Tours)

	// soft delete keeps the row for existing bookings
	raw, err := f.svc.Get(ctx, tour.ID)
	require.NoError(t, err)
	assert.False(t, raw.IsActive)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := users.Actor{ID: uuid.New(), Role: users.RoleAdmin}

	cheap := sampleRequest()
	cheap.Price = 30
	cheap.Location = "Porto"
	_, err := f.svc.Create(ctx, admin, cheap)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, admin, sampleRequest())
	require.NoError(t, err)

	maxPrice := 50.0
	list, err := f.svc.List(ctx, TourListQuery{MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, list.Tours, 1)
	assert.Equal(t, "Porto", list.Tours[0].Location)

	list, err = f.svc.List(ctx, TourListQuery{Location: "lis"})
	require.NoError(t, err)
	require.Len(t, list.Tours, 1)
	assert.Equal(t, "Lisbon", list.Tours[0].Location)

	list, err = f.svc.List(ctx, TourListQuery{Search: "food"})
	require.NoError(t, err)
	assert.Len(t, list.Tours, 2)
	assert.Equal(t, int64(2), list.Pagination.Total)

	minPrice := 60.0
	_, err = f.svc.List(ctx, TourListQuery{MinPrice: &minPrice, MaxPrice: &maxPrice})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestSetFeatured(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tour, err := f.svc.Create(ctx, users.Actor{ID: uuid.New(), Role: users.RoleAdmin}, sampleRequest())
	require.NoError(t, err)

	updated, err := f.svc.SetFeatured(ctx, tour.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)

	_, err = f.svc.SetFeatured(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ErrTourNotFound)
}
