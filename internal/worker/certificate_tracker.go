package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/model"
)

// CertificateAPI is the certificate-list slice of the portal API.
type CertificateAPI interface {
	MyCertificates(ctx context.Context) ([]model.Certificate, error)
}

const (
	DefaultLookupAttempts = 5
	DefaultLookupInterval = 2 * time.Second
)

// CertificateTracker resolves the certificate generated as a side
// effect of a submission when the backend did not return it
// synchronously. It performs one immediate lookup and then a bounded
// number of fixed-interval retries; running out of attempts is not an
// error, just "check the certificates page later".
type CertificateTracker struct {
	api      CertificateAPI
	attempts int
	interval time.Duration
	log      zerolog.Logger
}

// NewCertificateTracker creates a tracker. Non-positive attempts or
// interval fall back to the defaults.
func NewCertificateTracker(api CertificateAPI, attempts int, interval time.Duration, log zerolog.Logger) *CertificateTracker {
	if attempts <= 0 {
		attempts = DefaultLookupAttempts
	}
	if interval <= 0 {
		interval = DefaultLookupInterval
	}
	return &CertificateTracker{
		api:      api,
		attempts: attempts,
		interval: interval,
		log:      log.With().Str("component", "certificate_tracker").Logger(),
	}
}

// Track looks for a certificate matching the given form or event
// identifier. It returns (nil, nil) when no certificate appeared within
// the lookup window. Lookup failures are logged and swallowed — the
// certificate is a best-effort feature, never a blocker. Cancelling the
// context aborts the loop immediately.
func (t *CertificateTracker) Track(ctx context.Context, formOrEventID string) (*model.Certificate, error) {
	for attempt := 1; attempt <= t.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(t.interval):
			}
		}

		cert, err := t.lookup(ctx, formOrEventID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			t.log.Warn().Err(err).Int("attempt", attempt).Msg("Certificate lookup failed")
			continue
		}
		if cert != nil {
			t.log.Info().
				Str("certificate_id", cert.CertificateID).
				Int("attempt", attempt).
				Msg("Certificate available")
			return cert, nil
		}
	}

	t.log.Debug().Str("form_id", formOrEventID).Msg("Certificate not yet available")
	return nil, nil
}

func (t *CertificateTracker) lookup(ctx context.Context, formOrEventID string) (*model.Certificate, error) {
	certs, err := t.api.MyCertificates(ctx)
	if err != nil {
		return nil, err
	}
	for i := range certs {
		if certs[i].Matches(formOrEventID) {
			return &certs[i], nil
		}
	}
	return nil, nil
}
