package mockserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/model"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/response"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/validator"
)

// Handler implements the mock portal endpoints.
type Handler struct {
	store  *Store
	tokens *TokenService
	log    zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(store *Store, tokens *TokenService, log zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		tokens: tokens,
		log:    log.With().Str("component", "mockserver").Logger(),
	}
}

// GuestToken godoc
// POST /auth/guest
// Issues a guest evaluator token for a name/email pair.
func (h *Handler) GuestToken(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.tokens.Issue(req.Name, req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("Token issue failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}

// ListForms godoc
// GET /forms
// Lists the open evaluations.
func (h *Handler) ListForms(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.Forms())
}

// GetForm godoc
// GET /forms/:form_id
// Returns one form definition with its question list.
func (h *Handler) GetForm(c *gin.Context) {
	form, ok := h.store.Form(c.Param("form_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, form)
}

// SubmitForm godoc
// POST /forms/:form_id/submit
// Records a submission and issues the certificate, synchronously or
// after the configured delay.
func (h *Handler) SubmitForm(c *gin.Context) {
	form, ok := h.store.Form(c.Param("form_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	// Every entry must reference a question of this form.
	known := make(map[string]bool, len(form.Questions))
	for _, q := range form.Questions {
		known[q.ID] = true
	}
	for _, entry := range req.Responses {
		if !known[entry.QuestionID] {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
	}

	certID := h.store.RecordSubmission(form, &req)
	h.log.Info().
		Str("form_id", form.ID).
		Str("respondent", req.RespondentEmail).
		Bool("certificate_sync", certID != "").
		Msg("Submission recorded")

	if certID == "" {
		response.Success(c, http.StatusOK, gin.H{})
		return
	}
	response.Success(c, http.StatusOK, model.SubmitResult{CertificateID: certID})
}

// MyCertificates godoc
// GET /certificates/my
// Lists the certificates issued to the authenticated respondent.
func (h *Handler) MyCertificates(c *gin.Context) {
	claims := GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	response.Success(c, http.StatusOK, h.store.CertificatesFor(claims.Email))
}
