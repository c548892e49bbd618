package store

import (
	"fmt"

	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/errors"
)

// SaveCampaign persists a campaign.
func (s *Store) SaveCampaign(c *domain.Campaign) error {
	if c.ID == "" {
		return errors.Validation("campaign ID is required")
	}
	return s.set(prefixCampaign+c.ID, c)
}

// GetCampaign fetches a campaign by ID.
func (s *Store) GetCampaign(campaignID string) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := s.get(prefixCampaign+campaignID, &c); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundf("campaign %s not found", campaignID)
		}
		return nil, err
	}
	return &c, nil
}

// SaveRecipient persists a recipient record.
func (s *Store) SaveRecipient(r *domain.Recipient) error {
	if r.ID == "" {
		return errors.Validation("recipient ID is required")
	}
	return s.set(prefixRecipient+r.ID, r)
}

// GetRecipient fetches a recipient by ID.
func (s *Store) GetRecipient(recipientID string) (*domain.Recipient, error) {
	var r domain.Recipient
	if err := s.get(prefixRecipient+recipientID, &r); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundf("recipient %s not found", recipientID)
		}
		return nil, err
	}
	return &r, nil
}

// ListRecipients returns every recipient of a campaign, in the campaign's
// stored order.
func (s *Store) ListRecipients(campaign *domain.Campaign) ([]*domain.Recipient, error) {
	out := make([]*domain.Recipient, 0, len(campaign.RecipientIDs))
	for _, rid := range campaign.RecipientIDs {
		r, err := s.GetRecipient(rid)
		if err != nil {
			return nil, fmt.Errorf("campaign %s: %w", campaign.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// FetchSession assembles the session payload for one campaign recipient:
// canvas geometry, branding, background, and the recipient's record.
func (s *Store) FetchSession(campaignID, recipientID string) (*domain.SessionData, error) {
	c, err := s.GetCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	r, err := s.GetRecipient(recipientID)
	if err != nil {
		return nil, err
	}

	data := &domain.SessionData{
		CanvasWidth:   c.CanvasWidth,
		CanvasHeight:  c.CanvasHeight,
		BackgroundRef: c.BackgroundRef,
		Branding:      c.Branding,
		Recipient:     *r,
	}
	return data, nil
}
