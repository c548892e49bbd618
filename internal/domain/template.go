package domain

import "time"

// Template is a saved design: the serialized document, its mapping side-table,
// and a rendered preview. The document and table are one logical unit - a
// document without its matching table has no recoverable semantic markers.
type Template struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"id"`
	CampaignID   string    `json:"campaign_id,omitempty"`
	Name         string    `json:"name"`
	DocumentJSON []byte    `json:"document_json"`
	MappingJSON  []byte    `json:"mapping_json"`
	Preview      []byte    `json:"preview,omitempty"` // PNG
}

// Campaign groups recipients and templates for one mailing.
type Campaign struct {
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CanvasWidth   float64   `json:"canvas_width"`
	CanvasHeight  float64   `json:"canvas_height"`
	BackgroundRef string    `json:"background_ref"`
	Branding      Branding  `json:"branding"`
	RecipientIDs  []string  `json:"recipient_ids"`
}
