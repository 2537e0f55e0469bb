// Package crm implements the CRM integration endpoint: it receives leads from
// the configurator and records them as Odoo opportunities.
package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// LeadRequest is the lead contract posted by the configurator.
type LeadRequest struct {
	Configuration map[string]string `json:"configuration"`
	PackTitle     string            `json:"pack_title"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	PDFContent    string            `json:"pdf_content,omitempty"`
	PDFName       string            `json:"pdf_name,omitempty"`
}

// Missing lists the required fields that are empty.
func (r LeadRequest) Missing() []string {
	var missing []string
	if r.Configuration == nil {
		missing = append(missing, "configuration")
	}
	if strings.TrimSpace(r.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(r.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	return missing
}

// Result reports the records created for a lead.
type Result struct {
	LeadID       int `json:"odoo_id"`
	AttachmentID int `json:"attachment_id,omitempty"`
}

// Syncer records a lead in the CRM.
type Syncer interface {
	Sync(ctx context.Context, req LeadRequest) (Result, error)
}

// Odoo is the uniform interface over OdooClient used by OdooSync.
type Odoo interface {
	Authenticate(ctx context.Context) (int, error)
	Create(ctx context.Context, uid int, model string, values map[string]any) (int, error)
}

// OdooSync creates an opportunity per lead and attaches the study PDF when
// one is included.
type OdooSync struct {
	odoo   Odoo
	brand  string
	logger *slog.Logger
}

// NewOdooSync creates an OdooSync. brand names leads without a pack title.
func NewOdooSync(odoo Odoo, brand string, logger *slog.Logger) *OdooSync {
	return &OdooSync{odoo: odoo, brand: brand, logger: logger}
}

// Sync implements Syncer.
func (s *OdooSync) Sync(ctx context.Context, req LeadRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	uid, err := s.odoo.Authenticate(ctx)
	if err != nil {
		return Result{}, err
	}
	s.logger.Debug("authenticated with odoo", slog.Int("uid", uid))

	values, err := LeadValues(req, s.brand)
	if err != nil {
		return Result{}, err
	}
	leadID, err := s.odoo.Create(ctx, uid, "crm.lead", values)
	if err != nil {
		return Result{}, fmt.Errorf("creating lead: %w", err)
	}
	s.logger.Info("lead created in odoo",
		slog.Int("lead_id", leadID),
		slog.String("pack", req.PackTitle),
	)

	res := Result{LeadID: leadID}
	if req.PDFContent == "" {
		return res, nil
	}

	name := req.PDFName
	if name == "" {
		name = "study.pdf"
	}
	attID, err := s.odoo.Create(ctx, uid, "ir.attachment", map[string]any{
		"name":      name,
		"type":      "binary",
		"datas":     req.PDFContent,
		"res_model": "crm.lead",
		"res_id":    leadID,
		"mimetype":  "application/pdf",
	})
	if err != nil {
		// The opportunity exists; a missing attachment is not worth a retry
		// that would duplicate it.
		s.logger.Warn("attaching study failed",
			slog.Int("lead_id", leadID),
			slog.String("error", err.Error()),
		)
		return res, nil
	}
	res.AttachmentID = attID
	return res, nil
}

// LeadValues builds the crm.lead record for req.
func LeadValues(req LeadRequest, brand string) (map[string]any, error) {
	summary, err := json.MarshalIndent(req.Configuration, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding configuration: %w", err)
	}

	title := req.PackTitle
	if title == "" {
		title = brand
	}

	contact := strings.TrimSpace(req.FirstName + " " + req.LastName)
	if contact == "" {
		contact = "Web customer"
	}

	return map[string]any{
		"name":         "New configuration: " + title,
		"contact_name": contact,
		"email_from":   req.Email,
		"phone":        req.Phone,
		"description":  "Configuration details:\n" + string(summary),
		"type":         "opportunity",
		"priority":     Priority(req.PackTitle),
	}, nil
}

// Priority is "2" for security bundles and "1" otherwise.
func Priority(packTitle string) string {
	if strings.Contains(strings.ToLower(packTitle), "security") {
		return "2"
	}
	return "1"
}
