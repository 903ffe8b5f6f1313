package sponsorship

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

type MockSponsorshipStore struct {
	mock.Mock
}

func (m *MockSponsorshipStore) Insert(ctx context.Context, sp *domain.Sponsorship) error {
	args := m.Called(ctx, sp)
	return args.Error(0)
}

func (m *MockSponsorshipStore) FindConfirmedByListingIDs(ctx context.Context, listingIDs []string) ([]domain.Sponsorship, error) {
	args := m.Called(ctx, listingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sponsorship), args.Error(1)
}

func (m *MockSponsorshipStore) Confirm(ctx context.Context, sessionID string, at time.Time) (*domain.Sponsorship, error) {
	args := m.Called(ctx, sessionID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sponsorship), args.Error(1)
}

var ledgerNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func confirmed(listingID string, from, until time.Time) domain.Sponsorship {
	return domain.Sponsorship{
		ID:             "sp-" + listingID,
		ListingID:      listingID,
		BoostLevel:     1,
		Status:         domain.SponsorshipActive,
		SponsoredFrom:  from,
		SponsoredUntil: until,
	}
}

func TestLedger_ActiveFor_WithinWindow(t *testing.T) {
	store := new(MockSponsorshipStore)
	store.On("FindConfirmedByListingIDs", mock.Anything, []string{"L1"}).
		Return([]domain.Sponsorship{
			confirmed("L1", ledgerNow.Add(-24*time.Hour), ledgerNow.Add(24*time.Hour)),
		}, nil).Once()

	l := NewLedger(store, logger.NoOp{})
	active, err := l.ActiveFor(context.Background(), []string{"L1"}, ledgerNow)

	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "sp-L1", active["L1"].ID)
	store.AssertExpectations(t)
}

func TestLedger_ActiveFor_WindowBoundaries(t *testing.T) {
	from := ledgerNow.Add(-24 * time.Hour)
	until := ledgerNow.Add(24 * time.Hour)
	store := new(MockSponsorshipStore)
	store.On("FindConfirmedByListingIDs", mock.Anything, mock.Anything).
		Return([]domain.Sponsorship{confirmed("L1", from, until)}, nil)

	l := NewLedger(store, logger.NoOp{})

	// Start instant is inclusive.
	active, err := l.ActiveFor(context.Background(), []string{"L1"}, from)
	assert.NoError(t, err)
	assert.Contains(t, active, "L1")

	// End instant is exclusive: at == sponsoredUntil means expired.
	active, err = l.ActiveFor(context.Background(), []string{"L1"}, until)
	assert.NoError(t, err)
	assert.NotContains(t, active, "L1")
}

func TestLedger_ActiveFor_IgnoresUnconfirmedStatuses(t *testing.T) {
	from := ledgerNow.Add(-time.Hour)
	until := ledgerNow.Add(time.Hour)
	pending := confirmed("L1", from, until)
	pending.Status = domain.SponsorshipPending
	cancelled := confirmed("L2", from, until)
	cancelled.Status = domain.SponsorshipCancelled

	store := new(MockSponsorshipStore)
	store.On("FindConfirmedByListingIDs", mock.Anything, mock.Anything).
		Return([]domain.Sponsorship{pending, cancelled}, nil).Once()

	l := NewLedger(store, logger.NoOp{})
	active, err := l.ActiveFor(context.Background(), []string{"L1", "L2"}, ledgerNow)

	assert.NoError(t, err)
	assert.Empty(t, active)
}

func TestLedger_ActiveFor_StoredStatusNotTrusted(t *testing.T) {
	// Record still marked active but whose window has lapsed must not rank.
	lapsed := confirmed("L1", ledgerNow.Add(-48*time.Hour), ledgerNow.Add(-24*time.Hour))

	store := new(MockSponsorshipStore)
	store.On("FindConfirmedByListingIDs", mock.Anything, mock.Anything).
		Return([]domain.Sponsorship{lapsed}, nil).Once()

	l := NewLedger(store, logger.NoOp{})
	active, err := l.ActiveFor(context.Background(), []string{"L1"}, ledgerNow)

	assert.NoError(t, err)
	assert.Empty(t, active)
}

func TestLedger_ActiveFor_OverlapLatestFromWins(t *testing.T) {
	older := confirmed("L1", ledgerNow.Add(-48*time.Hour), ledgerNow.Add(24*time.Hour))
	older.ID = "sp-older"
	newer := confirmed("L1", ledgerNow.Add(-1*time.Hour), ledgerNow.Add(48*time.Hour))
	newer.ID = "sp-newer"

	store := new(MockSponsorshipStore)
	store.On("FindConfirmedByListingIDs", mock.Anything, mock.Anything).
		Return([]domain.Sponsorship{older, newer}, nil).Once()

	l := NewLedger(store, logger.NoOp{})
	active, err := l.ActiveFor(context.Background(), []string{"L1"}, ledgerNow)

	assert.NoError(t, err)
	assert.Equal(t, "sp-newer", active["L1"].ID)
}

func TestLedger_ActiveFor_EmptyInputSkipsStore(t *testing.T) {
	store := new(MockSponsorshipStore)

	l := NewLedger(store, logger.NoOp{})
	active, err := l.ActiveFor(context.Background(), nil, ledgerNow)

	assert.NoError(t, err)
	assert.Empty(t, active)
	store.AssertNotCalled(t, "FindConfirmedByListingIDs", mock.Anything, mock.Anything)
}

func TestLedger_ActiveFor_StoreErrorIsUnavailable(t *testing.T) {
	store := new(MockSponsorshipStore)
	store.On("FindConfirmedByListingIDs", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	l := NewLedger(store, logger.NoOp{})
	_, err := l.ActiveFor(context.Background(), []string{"L1"}, ledgerNow)

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestLedger_ActiveForOne(t *testing.T) {
	store := new(MockSponsorshipStore)
	store.On("FindConfirmedByListingIDs", mock.Anything, []string{"L1"}).
		Return([]domain.Sponsorship{
			confirmed("L1", ledgerNow.Add(-time.Hour), ledgerNow.Add(time.Hour)),
		}, nil).Once()
	store.On("FindConfirmedByListingIDs", mock.Anything, []string{"L2"}).
		Return([]domain.Sponsorship{}, nil).Once()

	l := NewLedger(store, logger.NoOp{})

	sp, err := l.ActiveForOne(context.Background(), "L1", ledgerNow)
	assert.NoError(t, err)
	assert.NotNil(t, sp)
	assert.Equal(t, "sp-L1", sp.ID)

	sp, err = l.ActiveForOne(context.Background(), "L2", ledgerNow)
	assert.NoError(t, err)
	assert.Nil(t, sp)
}
