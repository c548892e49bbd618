package service

import (
	"log/slog"
	"sort"

	"github.com/mailcanvas/mailcanvas-server/internal/domain"
)

// TemplateCatalog is the store surface the template service needs.
type TemplateCatalog interface {
	GetTemplate(tplID string) (*domain.Template, error)
	ListTemplates() ([]*domain.Template, error)
	DeleteTemplate(tplID string) error
}

// TemplateService exposes saved templates to the editor chrome and tooling.
type TemplateService struct {
	catalog TemplateCatalog
	logger  *slog.Logger
}

// NewTemplateService creates a template service.
func NewTemplateService(catalog TemplateCatalog, logger *slog.Logger) *TemplateService {
	return &TemplateService{catalog: catalog, logger: logger}
}

// Get fetches one template.
func (ts *TemplateService) Get(tplID string) (*domain.Template, error) {
	return ts.catalog.GetTemplate(tplID)
}

// List returns all templates, most recently updated first.
func (ts *TemplateService) List() ([]*domain.Template, error) {
	templates, err := ts.catalog.ListTemplates()
	if err != nil {
		return nil, err
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].UpdatedAt.After(templates[j].UpdatedAt)
	})
	return templates, nil
}

// Delete removes a template.
func (ts *TemplateService) Delete(tplID string) error {
	if err := ts.catalog.DeleteTemplate(tplID); err != nil {
		return err
	}
	ts.logger.Info("deleted template", "template_id", tplID)
	return nil
}
