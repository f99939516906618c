package model

// Form is an evaluation survey definition as served by the portal API.
type Form struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	EventID     string     `json:"eventId,omitempty"`
	Questions   []Question `json:"questions"`
}

// FormSummary is the list-view projection of a Form, as returned by the
// open-evaluations listing.
type FormSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EventID     string `json:"eventId,omitempty"`
}

// Summary returns the list-view projection of the form.
func (f *Form) Summary() FormSummary {
	return FormSummary{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		EventID:     f.EventID,
	}
}
