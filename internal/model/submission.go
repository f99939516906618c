package model

// ResponseEntry is one line of the submission payload. Every question of
// the form produces an entry, answered or not, in form order.
type ResponseEntry struct {
	QuestionID    string `json:"questionId" binding:"required"`
	QuestionTitle string `json:"questionTitle"`
	Answer        string `json:"answer"`
}

// SubmitRequest is the body POSTed to /forms/{formId}/submit. Respondent
// identity comes from the active session, not from the response store.
type SubmitRequest struct {
	Responses       []ResponseEntry `json:"responses" binding:"required,dive"`
	RespondentEmail string          `json:"respondentEmail" binding:"required,email"`
	RespondentName  string          `json:"respondentName" binding:"required"`
}

// SubmitResult is the data portion of a successful submission response.
// CertificateID is set only when the backend generated the certificate
// synchronously.
type SubmitResult struct {
	SubmissionID  string `json:"submissionId,omitempty"`
	CertificateID string `json:"certificateId,omitempty"`
}

// Respondent identifies who is filling the form, resolved from the
// surrounding auth session (participant, club officer, or guest).
type Respondent struct {
	Name  string
	Email string
}
