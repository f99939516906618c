package model

// FileRef identifies a locally selected file for a file-upload question.
// The byte transfer itself is owned by the upload collaborator; the
// engine only tracks that a file was attached and what to call it.
type FileRef struct {
	Name string
	Size int64
}

// Answer is a participant's current answer to one question. Text holds
// the value for every kind except file uploads, which set File instead.
// The zero Answer means "unanswered".
type Answer struct {
	Text string
	File *FileRef
}

// ResponseStore maps question IDs to in-progress answers for a single
// form session. It is owned by exactly one session and never persisted;
// a page reload style restart loses unsaved answers.
type ResponseStore struct {
	answers map[string]Answer
}

// NewResponseStore creates an empty response store.
func NewResponseStore() *ResponseStore {
	return &ResponseStore{answers: make(map[string]Answer)}
}

// SetAnswer records or overwrites the answer for a question.
func (s *ResponseStore) SetAnswer(questionID string, a Answer) {
	s.answers[questionID] = a
}

// GetAnswer returns the current answer for a question, or the zero
// Answer when the question has not been answered. Never fails.
func (s *ResponseStore) GetAnswer(questionID string) Answer {
	return s.answers[questionID]
}

// Clear empties the store. Used when a session restarts with a
// different form or closes.
func (s *ResponseStore) Clear() {
	s.answers = make(map[string]Answer)
}

// Len reports how many questions currently have an answer recorded.
func (s *ResponseStore) Len() int {
	return len(s.answers)
}
