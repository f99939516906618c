package service

import (
	"strings"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/model"
)

// MissingRequired returns, in form order, every required question the
// store holds no usable answer for. An answer is unusable when it is
// absent, empty or whitespace-only text, or (for file uploads) has no
// file attached.
//
// Callers surface the whole list at once; reporting one question at a
// time produces a frustrating decrease-by-one loop for the participant.
func MissingRequired(questions []model.NormalizedQuestion, store *model.ResponseStore) []model.NormalizedQuestion {
	var missing []model.NormalizedQuestion
	for _, q := range questions {
		if !q.Required {
			continue
		}
		if !Answered(q, store.GetAnswer(q.ID)) {
			missing = append(missing, q)
		}
	}
	return missing
}

// Answered reports whether the given answer counts as a real response
// for the question's presentation kind.
func Answered(q model.NormalizedQuestion, a model.Answer) bool {
	if q.Kind == model.KindFileUpload {
		return a.File != nil
	}
	return strings.TrimSpace(a.Text) != ""
}

// BuildPayload serializes the full question list against the store into
// the wire payload, preserving question order. Unanswered questions
// produce an entry with an empty answer so the backend always receives
// the complete form.
func BuildPayload(questions []model.NormalizedQuestion, store *model.ResponseStore) []model.ResponseEntry {
	entries := make([]model.ResponseEntry, len(questions))
	for i, q := range questions {
		entries[i] = model.ResponseEntry{
			QuestionID:    q.ID,
			QuestionTitle: q.Title,
			Answer:        answerText(q, store.GetAnswer(q.ID)),
		}
	}
	return entries
}

func answerText(q model.NormalizedQuestion, a model.Answer) string {
	if q.Kind == model.KindFileUpload {
		if a.File == nil {
			return ""
		}
		return a.File.Name
	}
	return a.Text
}
