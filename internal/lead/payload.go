package lead

import (
	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/document"
)

// Payload is the request body accepted by the CRM integration endpoint.
// Configuration keys are step numbers; encoding/json writes them as strings.
type Payload struct {
	Configuration map[int]string `json:"configuration"`
	PackTitle     string         `json:"pack_title"`
	FirstName     string         `json:"first_name"`
	LastName      string         `json:"last_name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	PDFContent    string         `json:"pdf_content,omitempty"`
	PDFName       string         `json:"pdf_name,omitempty"`
}

// NewPayload assembles the lead for a completed run. doc may be nil.
func NewPayload(answers map[int]string, packTitle string, c configurator.Contact, doc *document.Document) Payload {
	if answers == nil {
		answers = map[int]string{}
	}
	p := Payload{
		Configuration: answers,
		PackTitle:     packTitle,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		Phone:         c.Phone,
	}
	if doc != nil && len(doc.Data) > 0 {
		p.PDFContent = doc.Base64()
		p.PDFName = doc.Name
	}
	return p
}
