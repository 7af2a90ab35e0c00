package bookings

import (
	"context"
	"errors"
	"strings"
	"testing"

	"desicargo-backend/internal/apperr"
	"desicargo-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_PatchesLocalState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := NewView(f.svc, f.actor)

	require.NoError(t, v.Load(ctx, ""))
	assert.Empty(t, v.Bookings())

	first, err := v.Create(ctx, f.draft())
	require.NoError(t, err)
	second, err := v.Create(ctx, f.draft())
	require.NoError(t, err)

	got := v.Bookings()
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID, "new bookings are prepended")

	_, err = v.UpdateStatus(ctx, first.ID.String(), models.BookingInTransit, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingInTransit, v.Bookings()[1].Status)

	require.NoError(t, v.Delete(ctx, second.ID.String()))
	got = v.Bookings()
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
	assert.NoError(t, v.Err())
	assert.False(t, v.Loading())
}

func TestView_IsPrivatePerConsumer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := NewView(f.svc, f.actor)
	b := NewView(f.svc, f.actor)

	require.NoError(t, a.Load(ctx, ""))
	require.NoError(t, b.Load(ctx, ""))

	_, err := a.Create(ctx, f.draft())
	require.NoError(t, err)
	assert.Len(t, a.Bookings(), 1)
	assert.Empty(t, b.Bookings())

	require.NoError(t, b.Load(ctx, ""))
	assert.Len(t, b.Bookings(), 1)
}

func TestView_LoadFailureEmptiesList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := NewView(f.svc, f.actor)

	_, err := v.Create(ctx, f.draft())
	require.NoError(t, err)
	require.Len(t, v.Bookings(), 1)

	f.repo.listErr = apperr.Persistence(errors.New("connection reset"), "could not load bookings")
	f.svc.InvalidateLists(ctx)

	err = v.Load(ctx, "")
	require.Error(t, err)
	assert.Empty(t, v.Bookings())
	assert.Equal(t, err, v.Err())
}

func TestView_FailedWriteKeepsListAndRecordsError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := NewView(f.svc, f.actor)

	_, err := v.Create(ctx, f.draft())
	require.NoError(t, err)

	err = v.Delete(ctx, "bad-id")
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidIdentifier(v.Err()))
	assert.Len(t, v.Bookings(), 1)
}

func TestView_DeleteMatchesNonCanonicalID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := NewView(f.svc, f.actor)

	b, err := v.Create(ctx, f.draft())
	require.NoError(t, err)

	require.NoError(t, v.Delete(ctx, " "+strings.ToUpper(b.ID.String())+" "))
	assert.Empty(t, f.repo.rows)
	assert.Empty(t, v.Bookings())
}
