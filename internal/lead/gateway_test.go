package lead

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/konexlab/konex/internal/catalog"
	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/document"
	"github.com/konexlab/konex/internal/logging"
	"github.com/konexlab/konex/internal/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	payloads []Payload
	ids      []string
	err      error
}

func (s *recordingSender) Send(ctx context.Context, requestID string, p Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, p)
	s.ids = append(s.ids, requestID)
	return s.err
}

func (s *recordingSender) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func finishRun(t *testing.T, run *configurator.RunState) {
	t.Helper()
	for _, v := range []string{"House", "Yes", "Good", "No", "Security"} {
		require.NoError(t, run.Select(v))
	}
	run.SetContact(configurator.Contact{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: ""})
	require.True(t, run.SubmitContact())
	require.Equal(t, configurator.StageResult, run.Stage())
}

func completedRun(t *testing.T) (*configurator.RunState, recommend.Bundle) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	run := configurator.New(cat.LastQuestionStep(), false)
	finishRun(t, run)
	return run, recommend.Recommend(cat, run.Answers())
}

func waitGateway(t *testing.T, g *Gateway) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, g.Wait(ctx))
}

func TestSubmit_EndToEndPayload(t *testing.T) {
	run, bundle := completedRun(t)
	sender := &recordingSender{}
	g := NewGateway(sender, time.Second, logging.Nop())

	require.True(t, g.Submit(run, run.ID(), bundle, nil))
	waitGateway(t, g)

	require.Equal(t, 1, sender.calls())
	p := sender.payloads[0]
	assert.Equal(t, recommend.TitleSecurity, bundle.Title)
	assert.Equal(t, map[int]string{1: "House", 2: "Yes", 3: "Good", 4: "No", 5: "Security"}, p.Configuration)
	assert.Equal(t, bundle.Title, p.PackTitle)
	assert.Equal(t, "Jane", p.FirstName)
	assert.Equal(t, "Doe", p.LastName)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, "", p.Phone)
	assert.Empty(t, p.PDFContent)
	assert.Equal(t, run.ID(), sender.ids[0])
}

func TestSubmit_AtMostOncePerRun(t *testing.T) {
	run, bundle := completedRun(t)
	sender := &recordingSender{}
	g := NewGateway(sender, time.Second, logging.Nop())

	assert.True(t, g.Submit(run, run.ID(), bundle, nil))
	// Result stage re-rendered without a reset.
	assert.False(t, g.Submit(run, run.ID(), bundle, nil))
	waitGateway(t, g)

	assert.Equal(t, 1, sender.calls())
}

func TestSubmit_AfterResetSubmitsAgain(t *testing.T) {
	run, bundle := completedRun(t)
	sender := &recordingSender{}
	g := NewGateway(sender, time.Second, logging.Nop())

	first := run.ID()
	require.True(t, g.Submit(run, first, bundle, nil))
	run.Reset()
	assert.False(t, g.Submit(run, first, bundle, nil), "stale run id")

	finishRun(t, run)
	require.True(t, g.Submit(run, run.ID(), bundle, nil))
	waitGateway(t, g)

	assert.Equal(t, 2, sender.calls())
}

func TestSubmit_UnfinishedRun(t *testing.T) {
	run := configurator.New(5, false)
	g := NewGateway(&recordingSender{}, time.Second, logging.Nop())

	assert.False(t, g.Submit(run, run.ID(), recommend.Bundle{}, nil))
	assert.False(t, run.Submitted())
}

func TestSubmit_FailureIsSwallowed(t *testing.T) {
	run, bundle := completedRun(t)
	sender := &recordingSender{err: errors.New("connection refused")}
	g := NewGateway(sender, time.Second, logging.Nop())

	assert.True(t, g.Submit(run, run.ID(), bundle, nil))
	waitGateway(t, g)

	assert.Equal(t, 1, sender.calls())
	assert.Equal(t, configurator.StageResult, run.Stage())
	assert.True(t, run.Submitted(), "a failed send is not retried")
	assert.False(t, g.Submit(run, run.ID(), bundle, nil))
}

func TestSubmit_WithDocument(t *testing.T) {
	run, bundle := completedRun(t)
	sender := &recordingSender{}
	g := NewGateway(sender, time.Second, logging.Nop())
	doc := &document.Document{Name: "study.pdf", Data: []byte("%PDF-1.3")}

	g.Submit(run, run.ID(), bundle, doc)
	waitGateway(t, g)

	require.Equal(t, 1, sender.calls())
	assert.Equal(t, doc.Base64(), sender.payloads[0].PDFContent)
	assert.Equal(t, "study.pdf", sender.payloads[0].PDFName)
}

func TestWait_ContextExpires(t *testing.T) {
	run, bundle := completedRun(t)
	block := make(chan struct{})
	defer close(block)

	g := NewGateway(senderFunc(func(ctx context.Context, _ string, _ Payload) error {
		<-block
		return nil
	}), time.Minute, logging.Nop())
	g.Submit(run, run.ID(), bundle, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, g.Wait(ctx), context.DeadlineExceeded)
}

type senderFunc func(ctx context.Context, requestID string, p Payload) error

func (f senderFunc) Send(ctx context.Context, requestID string, p Payload) error {
	return f(ctx, requestID, p)
}

func TestHTTPSender_PostsJSON(t *testing.T) {
	var (
		gotBody    map[string]any
		gotHeaders http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := &HTTPSender{Endpoint: srv.URL, APIKey: "anon-key", Client: srv.Client()}
	p := NewPayload(map[int]string{1: "House", 5: "Energy"}, recommend.TitleEnergy,
		configurator.Contact{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}, nil)

	require.NoError(t, s.Send(context.Background(), "run-1", p))

	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "Bearer anon-key", gotHeaders.Get("Authorization"))
	assert.Equal(t, "run-1", gotHeaders.Get("X-Request-ID"))
	assert.Equal(t, map[string]any{"1": "House", "5": "Energy"}, gotBody["configuration"])
	assert.Equal(t, recommend.TitleEnergy, gotBody["pack_title"])
	assert.Equal(t, "", gotBody["phone"])
	_, hasPDF := gotBody["pdf_content"]
	assert.False(t, hasPDF, "pdf_content omitted when no document")
}

func TestHTTPSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "odoo down", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := &HTTPSender{Endpoint: srv.URL, Client: srv.Client()}
	err := s.Send(context.Background(), "", Payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "odoo down")
}

func TestHTTPSender_NoEndpoint(t *testing.T) {
	err := (&HTTPSender{}).Send(context.Background(), "", Payload{})
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestNewPayload_NilAnswers(t *testing.T) {
	p := NewPayload(nil, "Comfort Bundle", configurator.Contact{}, &document.Document{Name: "empty.pdf"})
	assert.NotNil(t, p.Configuration)
	assert.Empty(t, p.PDFContent, "empty documents are not attached")
}
