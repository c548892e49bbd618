package service

import (
	"log/slog"

	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/id"
	"github.com/mailcanvas/mailcanvas-server/internal/validation"
)

// CampaignStore is the store surface the campaign service needs.
type CampaignStore interface {
	SaveCampaign(c *domain.Campaign) error
	GetCampaign(campaignID string) (*domain.Campaign, error)
	SaveRecipient(r *domain.Recipient) error
	ListRecipients(campaign *domain.Campaign) ([]*domain.Recipient, error)
	FetchSession(campaignID, recipientID string) (*domain.SessionData, error)
}

// CampaignService manages campaigns and assembles per-recipient session
// payloads for the editor.
type CampaignService struct {
	store    CampaignStore
	validate *validation.Validator
	logger   *slog.Logger
}

// NewCampaignService creates a campaign service.
func NewCampaignService(store CampaignStore, logger *slog.Logger) *CampaignService {
	return &CampaignService{
		store:    store,
		validate: validation.New(),
		logger:   logger,
	}
}

// Create persists a new campaign with its recipients, generating IDs for
// both.
func (cs *CampaignService) Create(campaign *domain.Campaign, recipients []*domain.Recipient) error {
	if campaign.ID == "" {
		campaign.ID = id.MustGenerate(id.PrefixCampaign)
	}
	for _, r := range recipients {
		if err := cs.validate.Validate(r); err != nil {
			return err
		}
		if r.ID == "" {
			r.ID = id.MustGenerate(id.PrefixRecipient)
		}
		if err := cs.store.SaveRecipient(r); err != nil {
			return err
		}
		campaign.RecipientIDs = append(campaign.RecipientIDs, r.ID)
	}
	if err := cs.store.SaveCampaign(campaign); err != nil {
		return err
	}
	cs.logger.Info("created campaign",
		"campaign_id", campaign.ID,
		"recipients", len(campaign.RecipientIDs),
	)
	return nil
}

// Get fetches one campaign.
func (cs *CampaignService) Get(campaignID string) (*domain.Campaign, error) {
	return cs.store.GetCampaign(campaignID)
}

// Recipients returns a campaign's recipients in stored order.
func (cs *CampaignService) Recipients(campaignID string) ([]*domain.Recipient, error) {
	campaign, err := cs.store.GetCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	return cs.store.ListRecipients(campaign)
}

// SessionFor assembles the session payload for one campaign recipient.
func (cs *CampaignService) SessionFor(campaignID, recipientID string) (*domain.SessionData, error) {
	return cs.store.FetchSession(campaignID, recipientID)
}
