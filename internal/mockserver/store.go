package mockserver

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/model"
)

// Store is the in-memory backing state for the mock portal API. It
// exists for local development and tests only; the real portal backend
// owns persistence.
type Store struct {
	mu           sync.Mutex
	order        []string
	forms        map[string]*model.Form
	submissions  map[string][]*model.SubmitRequest // keyed by form ID
	certificates map[string][]model.Certificate    // keyed by respondent email
	certDelay    time.Duration
}

// NewStore creates an empty store. certDelay > 0 makes certificate
// generation asynchronous: the certificate appears in the respondent's
// list that long after a submission, which exercises the client's
// pending → ready path.
func NewStore(certDelay time.Duration) *Store {
	return &Store{
		forms:        make(map[string]*model.Form),
		submissions:  make(map[string][]*model.SubmitRequest),
		certificates: make(map[string][]model.Certificate),
		certDelay:    certDelay,
	}
}

// AddForm registers a form, preserving insertion order for listings.
func (s *Store) AddForm(f *model.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.forms[f.ID]; !exists {
		s.order = append(s.order, f.ID)
	}
	s.forms[f.ID] = f
}

// Form returns a form by ID.
func (s *Store) Form(id string) (*model.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[id]
	return f, ok
}

// Forms lists all registered forms in insertion order.
func (s *Store) Forms() []model.FormSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := make([]model.FormSummary, 0, len(s.order))
	for _, id := range s.order {
		summaries = append(summaries, s.forms[id].Summary())
	}
	return summaries
}

// RecordSubmission stores a submission and issues the certificate.
// With no configured delay the certificate ID is returned synchronously;
// otherwise it is an empty string and the certificate shows up in the
// respondent's list after the delay.
func (s *Store) RecordSubmission(form *model.Form, req *model.SubmitRequest) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[form.ID] = append(s.submissions[form.ID], req)

	cert := model.Certificate{
		CertificateID: "CERT-" + strings.ToUpper(uuid.New().String()[:8]),
		FormID:        form.ID,
		EventID:       form.EventID,
		Title:         form.Title,
		IssuedAt:      time.Now().UTC(),
	}
	email := req.RespondentEmail

	if s.certDelay <= 0 {
		s.certificates[email] = append(s.certificates[email], cert)
		return cert.CertificateID
	}

	time.AfterFunc(s.certDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.certificates[email] = append(s.certificates[email], cert)
	})
	return ""
}

// Submissions returns the recorded submissions for a form.
func (s *Store) Submissions(formID string) []*model.SubmitRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submissions[formID]
}

// CertificatesFor lists the certificates issued to a respondent.
func (s *Store) CertificatesFor(email string) []model.Certificate {
	s.mu.Lock()
	defer s.mu.Unlock()
	certs := make([]model.Certificate, len(s.certificates[email]))
	copy(certs, s.certificates[email])
	return certs
}

// SeedSampleForm registers the demo event-evaluation form used by the
// interactive runner.
func (s *Store) SeedSampleForm() *model.Form {
	low, high := 1, 5
	form := &model.Form{
		ID:          "demo-evaluation",
		Title:       "Leadership Training Seminar Evaluation",
		Description: "Tell us how the seminar went. Your certificate is generated after submission.",
		EventID:     "EVT-2026-014",
		Questions: []model.Question{
			{
				ID:       "q1",
				Title:    "How would you rate the event overall?",
				Required: true,
				Type:     model.QuestionTypeScale,
				Low:      &low,
				High:     &high,
				LowLabel: "Needs improvement",
			},
			{
				ID:       "q2",
				Title:    "How likely are you to recommend this event?",
				Required: true,
				Type:     model.QuestionTypeScale,
				Low:      &low,
				High:     &high,
			},
			{
				ID:       "q3",
				Title:    "Which session did you find most valuable?",
				Required: true,
				Type:     model.QuestionTypeMultipleChoice,
				Options:  []string{"Opening keynote", "Workshop A", "Workshop B", "Panel discussion"},
			},
			{
				ID:    "q4",
				Title: "Any suggestions for future events?",
				Type:  model.QuestionTypeParagraph,
			},
			{
				ID:       "q5",
				Title:    "Which date did you attend?",
				Required: true,
				Type:     model.QuestionTypeDate,
			},
		},
	}
	s.AddForm(form)
	return form
}
