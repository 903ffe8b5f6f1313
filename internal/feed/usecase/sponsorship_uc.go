package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/sponsorship"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

const (
	SubjectSponsorshipPending   = "sponsorship.pending"
	SubjectSponsorshipActivated = "sponsorship.activated"
)

// SponsorshipService drives a sponsorship purchase through validation,
// checkout and the asynchronous confirmation that eventually makes the
// record visible to ranking. The ledger is the single source of truth:
// nothing is pushed to readers, they poll it on every query.
type SponsorshipService struct {
	listings  domain.ListingStore
	store     domain.SponsorshipStore
	ledger    *sponsorship.Ledger
	gateway   domain.PaymentGateway
	directory domain.AgentDirectory
	events    domain.EventPublisher // optional
	receipts  domain.ReceiptSender  // optional
	pricing   PriceTable
	logger    logger.Logger
	now       func() time.Time
}

func NewSponsorshipService(
	listings domain.ListingStore,
	store domain.SponsorshipStore,
	ledger *sponsorship.Ledger,
	gateway domain.PaymentGateway,
	directory domain.AgentDirectory,
	events domain.EventPublisher,
	receipts domain.ReceiptSender,
	pricing PriceTable,
	log logger.Logger,
) *SponsorshipService {
	return &SponsorshipService{
		listings:  listings,
		store:     store,
		ledger:    ledger,
		gateway:   gateway,
		directory: directory,
		events:    events,
		receipts:  receipts,
		pricing:   pricing,
		logger:    log,
		now:       time.Now,
	}
}

func (s *SponsorshipService) WithClock(now func() time.Time) *SponsorshipService {
	s.now = now
	return s
}

// Purchase validates the request and creates a pending record plus a
// checkout handle. The record stays pending until the payment webhook
// confirms it; at most one confirmed, non-expired sponsorship may exist
// per listing, enforced here rather than by the storage layer.
func (s *SponsorshipService) Purchase(ctx context.Context, listingID string, boostLevel, durationDays int, requesterID string) (*domain.CheckoutHandle, error) {
	price, err := s.pricing.Price(boostLevel, durationDays)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, err
		}
		s.logger.Errorf("SponsorshipService.Purchase: listing lookup failed for %s: %v", listingID, err)
		return nil, domain.Unavailable(err)
	}
	if listing.OwnerID != requesterID {
		s.logger.Warnf("SponsorshipService.Purchase: requester %s does not own listing %s", requesterID, listingID)
		return nil, domain.ErrNotListingOwner
	}
	if listing.Status != domain.StatusActive {
		return nil, domain.ErrListingNotActive
	}

	now := s.now()
	existing, err := s.ledger.ActiveForOne(ctx, listingID, now)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ConflictError{ListingID: listingID, ActiveUntil: existing.SponsoredUntil}
	}

	sp := &domain.Sponsorship{
		ID:             uuid.NewString(),
		ListingID:      listingID,
		BoostLevel:     boostLevel,
		Status:         domain.SponsorshipPending,
		SponsoredUntil: now.Add(time.Duration(durationDays) * 24 * time.Hour),
		CreatedAt:      now,
	}

	handle, err := s.gateway.CreateCheckout(ctx, price.Amount, price.Currency, map[string]string{
		"sponsorship_id": sp.ID,
		"listing_id":     listingID,
	})
	if err != nil {
		s.logger.Errorf("SponsorshipService.Purchase: checkout creation failed for listing %s: %v", listingID, err)
		return nil, domain.Unavailable(err)
	}
	sp.CheckoutSessionID = handle.SessionID

	if err := s.store.Insert(ctx, sp); err != nil {
		s.logger.Errorf("SponsorshipService.Purchase: failed to persist pending sponsorship %s: %v", sp.ID, err)
		return nil, domain.Unavailable(err)
	}

	s.publish(ctx, SubjectSponsorshipPending, sp)
	s.logger.Infof("SponsorshipService.Purchase: pending sponsorship %s for listing %s (level %d, until %s)",
		sp.ID, listingID, boostLevel, sp.SponsoredUntil.Format(time.RFC3339))
	return handle, nil
}

// Confirm is the webhook-driven completion: it flips the pending record
// to active with sponsoredFrom = confirmation time. Receipt email and
// event publishing are best effort and never fail the confirmation.
func (s *SponsorshipService) Confirm(ctx context.Context, sessionID string) error {
	sp, err := s.store.Confirm(ctx, sessionID, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCheckout) {
			return err
		}
		s.logger.Errorf("SponsorshipService.Confirm: confirmation failed for session %s: %v", sessionID, err)
		return domain.Unavailable(err)
	}

	s.publish(ctx, SubjectSponsorshipActivated, sp)
	s.sendReceipt(ctx, sp)
	s.logger.Infof("SponsorshipService.Confirm: sponsorship %s active for listing %s until %s",
		sp.ID, sp.ListingID, sp.SponsoredUntil.Format(time.RFC3339))
	return nil
}

func (s *SponsorshipService) publish(ctx context.Context, subject string, sp *domain.Sponsorship) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, subject, sp); err != nil {
		s.logger.Warnf("SponsorshipService: failed to publish %s for %s: %v", subject, sp.ID, err)
	}
}

func (s *SponsorshipService) sendReceipt(ctx context.Context, sp *domain.Sponsorship) {
	if s.receipts == nil || s.directory == nil {
		return
	}
	listing, err := s.listings.FindByID(ctx, sp.ListingID)
	if err != nil {
		s.logger.Warnf("SponsorshipService.sendReceipt: listing %s lookup failed: %v", sp.ListingID, err)
		return
	}
	agent, err := s.directory.Resolve(ctx, listing.OwnerID)
	if err != nil || agent.Email == "" {
		s.logger.Warnf("SponsorshipService.sendReceipt: no email for owner %s", listing.OwnerID)
		return
	}
	if err := s.receipts.SendSponsorshipReceipt(agent.Email, listing.Title, sp.SponsoredUntil); err != nil {
		s.logger.Warnf("SponsorshipService.sendReceipt: send failed for %s: %v", sp.ID, err)
	}
}
