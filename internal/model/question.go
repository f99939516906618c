package model

// QuestionType is the authored type of a form question as stored by the
// form builder backend.
type QuestionType string

const (
	QuestionTypeShortAnswer    QuestionType = "short_answer"
	QuestionTypeParagraph      QuestionType = "paragraph"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeScale          QuestionType = "scale"
	QuestionTypeDate           QuestionType = "date"
	QuestionTypeTime           QuestionType = "time"
	QuestionTypeFileUpload     QuestionType = "file_upload"
)

// Question represents a single evaluation question as authored.
// Low/High and the labels are only meaningful for scale questions;
// Options only for multiple choice.
type Question struct {
	ID        string       `json:"id" binding:"required"`
	Title     string       `json:"title"`
	Required  bool         `json:"required"`
	Type      QuestionType `json:"type"`
	Options   []string     `json:"options,omitempty"`
	Low       *int         `json:"low,omitempty"`
	High      *int         `json:"high,omitempty"`
	LowLabel  string       `json:"lowLabel,omitempty"`
	HighLabel string       `json:"highLabel,omitempty"`
}

// PresentationKind is the renderer-facing category a question is
// normalized to. Unlike QuestionType it is always one of the enumerated
// values below, so renderers never need an "unknown type" branch.
type PresentationKind string

const (
	KindShortAnswer    PresentationKind = "SHORT_ANSWER"
	KindParagraph      PresentationKind = "PARAGRAPH"
	KindMultipleChoice PresentationKind = "MULTIPLE_CHOICE"
	KindNumericRating  PresentationKind = "NUMERIC_RATING"
	KindLikertRange    PresentationKind = "LIKERT_RANGE"
	KindDateInput      PresentationKind = "DATE_INPUT"
	KindTimeInput      PresentationKind = "TIME_INPUT"
	KindFileUpload     PresentationKind = "FILE_UPLOAD"
)

// NormalizedQuestion is the read-only, presentation-ready view of a
// Question. Computed once when a form loads; discarded with the session.
type NormalizedQuestion struct {
	ID         string
	Title      string
	Required   bool
	Kind       PresentationKind
	Options    []string
	RangeStart int
	RangeEnd   int
	LowLabel   string
	HighLabel  string
}
