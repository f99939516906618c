package service

import "github.com/rodolf2/event-evaluation-system-client-sub000/internal/model"

// Defaults applied when a scale question omits its bounds or labels.
const (
	DefaultRangeStart = 1
	DefaultRangeEnd   = 5
	DefaultLowLabel   = "Poor"
	DefaultHighLabel  = "Excellent"
)

// Normalize maps an authored question onto its presentation-ready
// descriptor. It is pure and total: malformed or unknown types fall back
// to a short answer rather than failing, since a survey renderer should
// always produce something the participant can fill in.
//
// A scale question with either label present renders as a labeled Likert
// range; with neither label it is a plain numeric rating.
func Normalize(q model.Question) model.NormalizedQuestion {
	n := model.NormalizedQuestion{
		ID:       q.ID,
		Title:    q.Title,
		Required: q.Required,
	}

	switch q.Type {
	case model.QuestionTypeParagraph:
		n.Kind = model.KindParagraph
	case model.QuestionTypeMultipleChoice:
		n.Kind = model.KindMultipleChoice
		n.Options = append([]string(nil), q.Options...)
	case model.QuestionTypeScale:
		n.RangeStart = intOr(q.Low, DefaultRangeStart)
		n.RangeEnd = intOr(q.High, DefaultRangeEnd)
		if q.LowLabel != "" || q.HighLabel != "" {
			n.Kind = model.KindLikertRange
			n.LowLabel = stringOr(q.LowLabel, DefaultLowLabel)
			n.HighLabel = stringOr(q.HighLabel, DefaultHighLabel)
		} else {
			n.Kind = model.KindNumericRating
		}
	case model.QuestionTypeDate:
		n.Kind = model.KindDateInput
	case model.QuestionTypeTime:
		n.Kind = model.KindTimeInput
	case model.QuestionTypeFileUpload:
		n.Kind = model.KindFileUpload
	default:
		// Includes short_answer and anything the builder may author in
		// the future. Fail open, not closed.
		n.Kind = model.KindShortAnswer
	}

	return n
}

// NormalizeAll normalizes a full question list, preserving order.
func NormalizeAll(questions []model.Question) []model.NormalizedQuestion {
	normalized := make([]model.NormalizedQuestion, len(questions))
	for i, q := range questions {
		normalized[i] = Normalize(q)
	}
	return normalized
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
