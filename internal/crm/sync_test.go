package crm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konexlab/konex/internal/logging"
)

type createCall struct {
	model  string
	values map[string]any
}

type stubOdoo struct {
	authErr   error
	createErr map[string]error
	calls     []createCall
}

func (s *stubOdoo) Authenticate(context.Context) (int, error) {
	if s.authErr != nil {
		return 0, s.authErr
	}
	return 7, nil
}

func (s *stubOdoo) Create(_ context.Context, uid int, model string, values map[string]any) (int, error) {
	s.calls = append(s.calls, createCall{model: model, values: values})
	if err := s.createErr[model]; err != nil {
		return 0, err
	}
	if model == "ir.attachment" {
		return 99, nil
	}
	return 42, nil
}

func sampleRequest() LeadRequest {
	return LeadRequest{
		Configuration: map[string]string{"1": "House", "5": "Security"},
		PackTitle:     "Security Bundle",
		FirstName:     "Ana",
		LastName:      "Diaz",
		Email:         "ana@example.test",
		Phone:         "",
	}
}

func TestLeadValues(t *testing.T) {
	v, err := LeadValues(sampleRequest(), "Konexlab")
	require.NoError(t, err)

	assert.Equal(t, "New configuration: Security Bundle", v["name"])
	assert.Equal(t, "Ana Diaz", v["contact_name"])
	assert.Equal(t, "ana@example.test", v["email_from"])
	assert.Equal(t, "opportunity", v["type"])
	assert.Equal(t, "2", v["priority"])
	assert.Contains(t, v["description"], `"5": "Security"`)
}

func TestLeadValues_FallbackTitle(t *testing.T) {
	req := sampleRequest()
	req.PackTitle = ""
	v, err := LeadValues(req, "Konexlab")
	require.NoError(t, err)
	assert.Equal(t, "New configuration: Konexlab", v["name"])
	assert.Equal(t, "1", v["priority"])
}

func TestPriority(t *testing.T) {
	assert.Equal(t, "2", Priority("Security Bundle"))
	assert.Equal(t, "2", Priority("home SECURITY"))
	assert.Equal(t, "1", Priority("Energy Savings Bundle"))
	assert.Equal(t, "1", Priority(""))
}

func TestLeadRequest_Missing(t *testing.T) {
	assert.Empty(t, sampleRequest().Missing())

	req := sampleRequest()
	req.Configuration = nil
	req.Email = "  "
	assert.Equal(t, []string{"configuration", "email"}, req.Missing())
}

func TestOdooSync_WithoutDocument(t *testing.T) {
	odoo := &stubOdoo{}
	s := NewOdooSync(odoo, "Konexlab", logging.Nop())

	res, err := s.Sync(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, Result{LeadID: 42}, res)
	require.Len(t, odoo.calls, 1)
	assert.Equal(t, "crm.lead", odoo.calls[0].model)
}

func TestOdooSync_AttachesDocument(t *testing.T) {
	odoo := &stubOdoo{}
	s := NewOdooSync(odoo, "Konexlab", logging.Nop())

	req := sampleRequest()
	req.PDFContent = "JVBERi0="
	req.PDFName = "Konexlab_Study.pdf"

	res, err := s.Sync(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, Result{LeadID: 42, AttachmentID: 99}, res)

	require.Len(t, odoo.calls, 2)
	att := odoo.calls[1]
	assert.Equal(t, "ir.attachment", att.model)
	assert.Equal(t, "crm.lead", att.values["res_model"])
	assert.Equal(t, 42, att.values["res_id"])
	assert.Equal(t, "JVBERi0=", att.values["datas"])
	assert.Equal(t, "Konexlab_Study.pdf", att.values["name"])
}

func TestOdooSync_AttachmentFailureKeepsLead(t *testing.T) {
	odoo := &stubOdoo{createErr: map[string]error{"ir.attachment": errors.New("too large")}}
	s := NewOdooSync(odoo, "Konexlab", logging.Nop())

	req := sampleRequest()
	req.PDFContent = "JVBERi0="

	res, err := s.Sync(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, Result{LeadID: 42}, res)
}

func TestOdooSync_Errors(t *testing.T) {
	authFail := &stubOdoo{authErr: ErrAuthFailed}
	_, err := NewOdooSync(authFail, "Konexlab", logging.Nop()).Sync(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Empty(t, authFail.calls)

	boom := errors.New("boom")
	createFail := &stubOdoo{createErr: map[string]error{"crm.lead": boom}}
	_, err = NewOdooSync(createFail, "Konexlab", logging.Nop()).Sync(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewOdooSync(&stubOdoo{}, "Konexlab", logging.Nop()).Sync(ctx, sampleRequest())
	assert.ErrorIs(t, err, context.Canceled)
}
