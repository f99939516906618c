package integration

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/client"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/config"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/mockserver"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/model"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/service"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/validator"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/worker"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

// portal spins up the in-process mock portal and an authenticated client
// against it.
func portal(t *testing.T, certDelay time.Duration) (*client.Client, *model.Form) {
	t.Helper()

	cfg := &config.Config{GinMode: gin.TestMode}
	store := mockserver.NewStore(certDelay)
	form := store.SeedSampleForm()
	tokens := mockserver.NewTokenService("integration-secret", time.Hour)
	handler := mockserver.NewHandler(store, tokens, zerolog.Nop())
	srv := httptest.NewServer(mockserver.SetupRouter(handler, tokens, cfg))
	t.Cleanup(srv.Close)

	clientCfg := &config.Config{APIBaseURL: srv.URL, HTTPTimeout: 5 * time.Second}
	bootstrap := client.New(clientCfg, "", zerolog.Nop())
	token, err := bootstrap.GuestToken(context.Background(), "Ana Cruz", "ana@example.com")
	if err != nil {
		t.Fatalf("guest token: %v", err)
	}

	return client.New(clientCfg, token, zerolog.Nop()), form
}

func answerAllRequired(t *testing.T, session *service.FormSession) {
	t.Helper()
	for _, q := range session.Questions() {
		if !q.Required {
			continue
		}
		answer := model.Answer{Text: "3"}
		switch q.Kind {
		case model.KindMultipleChoice:
			answer.Text = q.Options[0]
		case model.KindDateInput:
			answer.Text = "2026-08-30"
		case model.KindFileUpload:
			answer = model.Answer{File: &model.FileRef{Name: "attendance.pdf", Size: 512}}
		}
		if err := session.SetAnswer(q.ID, answer); err != nil {
			t.Fatalf("answer %s: %v", q.ID, err)
		}
	}
}

func TestFullSessionSynchronousCertificate(t *testing.T) {
	api, form := portal(t, 0)

	respondent := model.Respondent{Name: "Ana Cruz", Email: "ana@example.com"}
	tracker := worker.NewCertificateTracker(api, 3, 10*time.Millisecond, zerolog.Nop())
	session := service.NewFormSession(api, respondent, zerolog.Nop(), service.WithCertificateFinder(tracker))
	defer session.Close()

	if err := session.Load(context.Background(), form.ID); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Validation gate first: nothing answered yet.
	err := session.Submit(context.Background())
	if _, ok := err.(*service.ValidationError); !ok {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	answerAllRequired(t, session)
	if err := session.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if session.State() != service.StateCertificateReady {
		t.Fatalf("state = %s, want certificate ready (fixture issues synchronously)", session.State())
	}
	if cert := session.Certificate(); cert == nil || cert.CertificateID == "" {
		t.Fatalf("cert = %+v", cert)
	}
}

func TestFullSessionDeferredCertificate(t *testing.T) {
	api, form := portal(t, 50*time.Millisecond)

	respondent := model.Respondent{Name: "Ana Cruz", Email: "ana@example.com"}
	tracker := worker.NewCertificateTracker(api, 10, 25*time.Millisecond, zerolog.Nop())
	session := service.NewFormSession(api, respondent, zerolog.Nop(), service.WithCertificateFinder(tracker))
	defer session.Close()

	if err := session.Load(context.Background(), form.ID); err != nil {
		t.Fatalf("load: %v", err)
	}
	answerAllRequired(t, session)
	if err := session.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if session.State() != service.StateCertificatePending {
		t.Fatalf("state = %s, want pending (fixture defers the certificate)", session.State())
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && session.State() != service.StateCertificateReady {
		time.Sleep(10 * time.Millisecond)
	}
	if session.State() != service.StateCertificateReady {
		t.Fatalf("state = %s, certificate never resolved", session.State())
	}
	cert := session.Certificate()
	if cert == nil || !cert.Matches(form.EventID) {
		t.Fatalf("cert = %+v, want match on event %s", cert, form.EventID)
	}
}

func TestLoadFailureAgainstRealTransport(t *testing.T) {
	api, _ := portal(t, 0)

	session := service.NewFormSession(api, model.Respondent{Name: "Ana", Email: "ana@example.com"}, zerolog.Nop())
	defer session.Close()

	if err := session.Load(context.Background(), "does-not-exist"); err == nil {
		t.Fatal("load of a missing form should fail")
	}
	if session.State() != service.StateError {
		t.Fatalf("state = %s, want error", session.State())
	}
}
