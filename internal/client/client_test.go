package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/config"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/model"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/response"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.Config{APIBaseURL: srv.URL, HTTPTimeout: 5 * time.Second}
	return New(cfg, token, zerolog.Nop()), srv
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data interface{}, errBody *response.ErrorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"data":    data,
		"error":   errBody,
	})
}

func TestFetchForm(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/forms/f1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want forwarded bearer token", got)
		}
		writeEnvelope(w, http.StatusOK, true, model.Form{
			ID:    "f1",
			Title: "Seminar Evaluation",
			Questions: []model.Question{
				{ID: "q1", Title: "Overall", Type: model.QuestionTypeScale, Required: true},
			},
		}, nil)
	}, "tok-123")

	form, err := c.FetchForm(context.Background(), "f1")
	if err != nil {
		t.Fatalf("FetchForm: %v", err)
	}
	if form.Title != "Seminar Evaluation" || len(form.Questions) != 1 {
		t.Fatalf("form = %+v", form)
	}
}

func TestFetchFormNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, false, nil, &response.ErrorBody{
			Code:    response.ErrNotFound,
			Message: "The requested resource was not found.",
		})
	}, "")

	_, err := c.FetchForm(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Code != response.ErrNotFound {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

// A 200 with success=false is still a failure.
func TestSuccessFalseIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, false, nil, nil)
	}, "")

	if _, err := c.FetchForm(context.Background(), "f1"); err == nil {
		t.Fatal("success=false must surface as an error")
	}
}

func TestSubmit(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forms/f1/submit" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req model.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.RespondentEmail != "ana@example.com" || len(req.Responses) != 1 {
			t.Errorf("req = %+v", req)
		}
		writeEnvelope(w, http.StatusOK, true, model.SubmitResult{CertificateID: "CERT-001"}, nil)
	}, "tok")

	result, err := c.Submit(context.Background(), "f1", &model.SubmitRequest{
		Responses:       []model.ResponseEntry{{QuestionID: "q1", QuestionTitle: "Overall", Answer: "5"}},
		RespondentEmail: "ana@example.com",
		RespondentName:  "Ana Cruz",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.CertificateID != "CERT-001" {
		t.Fatalf("result = %+v", result)
	}
}

func TestMyCertificates(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/certificates/my" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, true, []model.Certificate{
			{CertificateID: "CERT-001", FormID: "f1"},
			{CertificateID: "CERT-002", EventID: "EVT-1"},
		}, nil)
	}, "tok")

	certs, err := c.MyCertificates(context.Background())
	if err != nil {
		t.Fatalf("MyCertificates: %v", err)
	}
	if len(certs) != 2 || certs[1].EventID != "EVT-1" {
		t.Fatalf("certs = %+v", certs)
	}
}

func TestGuestToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/guest" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, true, map[string]string{"token": "guest-tok"}, nil)
	}, "")

	token, err := c.GuestToken(context.Background(), "Ana", "ana@example.com")
	if err != nil {
		t.Fatalf("GuestToken: %v", err)
	}
	if token != "guest-tok" {
		t.Fatalf("token = %q", token)
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cfg := &config.Config{APIBaseURL: srv.URL, HTTPTimeout: time.Second}
	srv.Close() // Connection refused from here on.
	c := New(cfg, "", zerolog.Nop())

	if _, err := c.FetchForm(context.Background(), "f1"); err == nil {
		t.Fatal("transport failure must surface as an error")
	}
}

func TestContextCancellation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.MyCertificates(ctx); err == nil {
		t.Fatal("cancelled request must fail")
	}
}
