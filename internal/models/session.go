package models

import "time"

// SessionStatus represents the status of a conversion session.
type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusConverting SessionStatus = "converting"
	SessionStatusComplete   SessionStatus = "complete"
)

// ConvertSession represents one upload interaction: the ordered set of
// conversion results produced from a single batch of uploaded files.
// Sessions are in-memory only and are evicted after their TTL.
type ConvertSession struct {
	ID        string        `json:"id"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`

	// Results preserves upload order. Failed conversions stay in place so
	// the caller can line results up with what it sent.
	Results []*ConversionResult `json:"results"`

	// PlainTextExport records whether the session was created with the
	// plain-text export option enabled.
	PlainTextExport bool `json:"plainTextExport"`
}

// NewConvertSession creates a session in pending status.
func NewConvertSession(id string) *ConvertSession {
	return &ConvertSession{
		ID:        id,
		Status:    SessionStatusPending,
		CreatedAt: time.Now(),
		Results:   make([]*ConversionResult, 0),
	}
}

// SuccessCount returns the number of successful conversions.
func (s *ConvertSession) SuccessCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Succeeded() {
			n++
		}
	}
	return n
}

// FailureCount returns the number of failed conversions.
func (s *ConvertSession) FailureCount() int {
	return len(s.Results) - s.SuccessCount()
}

// Result returns the result with the given ID, or nil.
func (s *ConvertSession) Result(id string) *ConversionResult {
	for _, r := range s.Results {
		if r.ID == id {
			return r
		}
	}
	return nil
}
