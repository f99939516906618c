package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/model"
)

// SessionState is the lifecycle state of one open form view.
type SessionState string

const (
	StateLoading            SessionState = "LOADING"
	StateAnswering          SessionState = "ANSWERING"
	StateSubmitting         SessionState = "SUBMITTING"
	StateCertificatePending SessionState = "SUBMITTED_CERTIFICATE_PENDING"
	StateCertificateReady   SessionState = "SUBMITTED_CERTIFICATE_READY"
	StateClosed             SessionState = "CLOSED"
	StateError              SessionState = "ERROR"
)

// Submitted reports whether the state is one of the post-submission states.
func (s SessionState) Submitted() bool {
	return s == StateCertificatePending || s == StateCertificateReady
}

// Common session errors.
var (
	ErrSessionNotAnswering = errors.New("session is not accepting answers")
	ErrUnknownQuestion     = errors.New("question is not part of the loaded form")
)

// ValidationError carries every required question still unanswered at
// submit time. No network call was made when this is returned.
type ValidationError struct {
	Missing []model.NormalizedQuestion
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d required question(s) unanswered", len(e.Missing))
}

// FormAPI is the slice of the portal API a form session needs.
type FormAPI interface {
	FetchForm(ctx context.Context, formID string) (*model.Form, error)
	Submit(ctx context.Context, formID string, req *model.SubmitRequest) (*model.SubmitResult, error)
}

// CertificateFinder locates the certificate generated for a submitted
// form. Implementations are best-effort: (nil, nil) means "not yet
// available", never an error.
type CertificateFinder interface {
	Track(ctx context.Context, formOrEventID string) (*model.Certificate, error)
}

// FormSession drives one participant through one evaluation form:
// load, answer, validate, submit, then track the certificate side
// effect. Each session owns its response store; nothing is shared
// between sessions.
type FormSession struct {
	api        FormAPI
	finder     CertificateFinder
	respondent model.Respondent
	autoClose  time.Duration
	log        zerolog.Logger

	mu          sync.Mutex
	state       SessionState
	formID      string
	form        *model.Form
	questions   []model.NormalizedQuestion
	store       *model.ResponseStore
	cert        *model.Certificate
	cancelTrack context.CancelFunc
	closeTimer  *time.Timer
}

// SessionOption configures a FormSession.
type SessionOption func(*FormSession)

// WithAutoClose closes the session automatically after the given delay
// once it reaches a submitted state, so the participant can read the
// certificate message before returning to the evaluation list. Zero
// disables the timer.
func WithAutoClose(d time.Duration) SessionOption {
	return func(s *FormSession) { s.autoClose = d }
}

// WithCertificateFinder attaches the tracker used to resolve
// certificates that are not returned synchronously.
func WithCertificateFinder(f CertificateFinder) SessionOption {
	return func(s *FormSession) { s.finder = f }
}

// NewFormSession creates a session for the given respondent. The session
// starts in the Loading state; call Load to fetch the form.
func NewFormSession(api FormAPI, respondent model.Respondent, log zerolog.Logger, opts ...SessionOption) *FormSession {
	s := &FormSession{
		api:        api,
		respondent: respondent,
		state:      StateLoading,
		store:      model.NewResponseStore(),
		log:        log.With().Str("component", "form_session").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current session state.
func (s *FormSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Form returns the loaded form, or nil before a successful Load.
func (s *FormSession) Form() *model.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Questions returns the normalized question list in form order.
func (s *FormSession) Questions() []model.NormalizedQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}

// Certificate returns the certificate reference once the session has
// reached the certificate-ready state, nil otherwise.
func (s *FormSession) Certificate() *model.Certificate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cert
}

// Load fetches the form definition and normalizes its questions,
// transitioning Loading → Answering. A fetch failure transitions to
// Error, which is terminal for this session. Reloading an errored or
// closed session with a different form resets the response store.
func (s *FormSession) Load(ctx context.Context, formID string) error {
	s.mu.Lock()
	switch s.state {
	case StateLoading, StateError, StateClosed:
		// Loadable.
	default:
		s.mu.Unlock()
		return fmt.Errorf("load from state %s: %w", s.state, ErrSessionNotAnswering)
	}
	s.state = StateLoading
	s.formID = formID
	s.store.Clear()
	s.mu.Unlock()

	form, err := s.api.FetchForm(ctx, formID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.log.Error().Err(err).Str("form_id", formID).Msg("Form load failed")
		return fmt.Errorf("fetch form %s: %w", formID, err)
	}

	s.form = form
	s.questions = NormalizeAll(form.Questions)
	s.state = StateAnswering
	s.log.Info().Str("form_id", formID).Int("questions", len(s.questions)).Msg("Form loaded")
	return nil
}

// SetAnswer records the participant's answer to a question. Only valid
// while the session is in the Answering state; answers may never
// reference a question outside the loaded form.
func (s *FormSession) SetAnswer(questionID string, a model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAnswering {
		return ErrSessionNotAnswering
	}
	if !s.hasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	s.store.SetAnswer(questionID, a)
	return nil
}

// Answer returns the current answer for a question (zero value when
// unanswered).
func (s *FormSession) Answer(questionID string) model.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GetAnswer(questionID)
}

// MissingRequired returns the required questions still unanswered, in
// form order.
func (s *FormSession) MissingRequired() []model.NormalizedQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MissingRequired(s.questions, s.store)
}

// Submit validates the responses and, if complete, POSTs them to the
// portal. On success the session moves to a submitted state:
// certificate-ready when the backend returned the certificate
// synchronously, certificate-pending otherwise (with the finder working
// in the background). On failure the session returns to Answering with
// the response store untouched, so the participant can retry without
// re-entering anything.
//
// While a submission is in flight, repeat calls are no-ops: the guard is
// the Submitting state itself, not a request token.
func (s *FormSession) Submit(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting, StateCertificatePending, StateCertificateReady:
		// Already submitting or submitted. Ignore.
		s.mu.Unlock()
		return nil
	case StateAnswering:
		// Proceed.
	default:
		s.mu.Unlock()
		return ErrSessionNotAnswering
	}

	if missing := MissingRequired(s.questions, s.store); len(missing) > 0 {
		s.mu.Unlock()
		return &ValidationError{Missing: missing}
	}

	req := &model.SubmitRequest{
		Responses:       BuildPayload(s.questions, s.store),
		RespondentEmail: s.respondent.Email,
		RespondentName:  s.respondent.Name,
	}
	formID := s.formID
	s.state = StateSubmitting
	s.mu.Unlock()

	result, err := s.api.Submit(ctx, formID, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitting {
		// Closed while the request was in flight. Discard the result.
		return nil
	}
	if err != nil {
		s.state = StateAnswering
		s.log.Warn().Err(err).Str("form_id", formID).Msg("Submission failed")
		return fmt.Errorf("submit form %s: %w", formID, err)
	}

	if result != nil && result.CertificateID != "" {
		s.cert = &model.Certificate{CertificateID: result.CertificateID, FormID: formID}
		s.state = StateCertificateReady
		s.log.Info().Str("certificate_id", result.CertificateID).Msg("Submitted, certificate ready")
	} else {
		s.state = StateCertificatePending
		s.log.Info().Str("form_id", formID).Msg("Submitted, certificate pending")
		s.startCertificateTrack(formID)
	}
	s.scheduleAutoClose()
	return nil
}

// Close ends the session: any in-flight certificate lookup is cancelled
// and its eventual result discarded, and the response store is cleared.
// Safe to call more than once.
func (s *FormSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	if s.cancelTrack != nil {
		s.cancelTrack()
		s.cancelTrack = nil
	}
	if s.closeTimer != nil {
		s.closeTimer.Stop()
		s.closeTimer = nil
	}
	s.store.Clear()
	s.state = StateClosed
	s.log.Debug().Str("form_id", s.formID).Msg("Session closed")
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

// startCertificateTrack hands off to the certificate finder in the
// background. Caller must hold s.mu. The certificate key is the event ID
// when the form is tied to an event, the form ID otherwise.
func (s *FormSession) startCertificateTrack(formID string) {
	if s.finder == nil {
		return
	}
	key := formID
	if s.form != nil && s.form.EventID != "" {
		key = s.form.EventID
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelTrack = cancel

	go func() {
		cert, err := s.finder.Track(ctx, key)
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state != StateCertificatePending {
			// Session closed or otherwise moved on. Drop the result.
			return
		}
		if err != nil || cert == nil {
			// Not available within the lookup window. The participant is
			// told to check the certificates page later; this is not an
			// error state.
			return
		}
		s.cert = cert
		s.state = StateCertificateReady
		s.log.Info().Str("certificate_id", cert.CertificateID).Msg("Certificate resolved")
	}()
}

// scheduleAutoClose arms the fixed-delay close timer for the submitted
// states. Caller must hold s.mu.
func (s *FormSession) scheduleAutoClose() {
	if s.autoClose <= 0 {
		return
	}
	s.closeTimer = time.AfterFunc(s.autoClose, s.Close)
}

func (s *FormSession) hasQuestion(questionID string) bool {
	for _, q := range s.questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}
