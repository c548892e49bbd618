package domain

// Branding carries the campaign's fixed company identity: placed once per
// design and reused verbatim for every recipient.
type Branding struct {
	CompanyName string `json:"companyName"`
	LogoRef     string `json:"logoRef"`
}

// SessionData is everything the orchestrator needs to open one editing or
// personalization session: canvas geometry, the campaign's fixed assets, the
// current recipient, and an optional template to start from.
type SessionData struct {
	CanvasWidth   float64   `json:"canvasWidth" validate:"gt=0"`
	CanvasHeight  float64   `json:"canvasHeight" validate:"gt=0"`
	BackgroundRef string    `json:"backgroundRef"`
	Branding      Branding  `json:"branding"`
	Recipient     Recipient `json:"recipient"`
	TemplateID    string    `json:"templateId,omitempty"`
}
