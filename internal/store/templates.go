package store

import (
	"encoding/json/v2"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/mailcanvas/mailcanvas-server/internal/domain"
	"github.com/mailcanvas/mailcanvas-server/internal/errors"
)

// SaveTemplate persists a template. The whole record - document JSON, mapping
// JSON, preview, metadata - lands in one transaction, so a reader can never
// observe a document without its side-table.
func (s *Store) SaveTemplate(tpl *domain.Template) error {
	if tpl.ID == "" {
		return errors.Validation("template ID is required")
	}
	if len(tpl.DocumentJSON) == 0 || len(tpl.MappingJSON) == 0 {
		return errors.Validation("template document and mapping table must be saved together")
	}

	now := time.Now()
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = now
	}
	tpl.UpdatedAt = now

	data, err := json.Marshal(tpl)
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixTemplate+tpl.ID), data)
	})
	if err != nil {
		return fmt.Errorf("save template %s: %w", tpl.ID, err)
	}

	s.logger.Info("saved template",
		"template_id", tpl.ID,
		"name", tpl.Name,
		"document_bytes", len(tpl.DocumentJSON),
		"preview_bytes", len(tpl.Preview),
	)
	return nil
}

// GetTemplate fetches a template by ID.
func (s *Store) GetTemplate(tplID string) (*domain.Template, error) {
	var tpl domain.Template
	if err := s.get(prefixTemplate+tplID, &tpl); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundf("template %s not found", tplID)
		}
		return nil, err
	}
	return &tpl, nil
}

// ListTemplates returns all saved templates.
func (s *Store) ListTemplates() ([]*domain.Template, error) {
	var out []*domain.Template
	err := s.list(prefixTemplate, func(val []byte) error {
		var tpl domain.Template
		if err := json.Unmarshal(val, &tpl); err != nil {
			return err
		}
		out = append(out, &tpl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

// DeleteTemplate removes a template.
func (s *Store) DeleteTemplate(tplID string) error {
	return s.delete(prefixTemplate + tplID)
}
