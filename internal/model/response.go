package model

import "time"

// isoLayout matches the millisecond ISO-8601 form browsers emit.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders t as ISO-8601 in UTC. The zero time renders empty.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

// Envelope is the uniform response shape: success flag, human message and
// at most one payload field.
type Envelope struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	User     *UserResponse     `json:"user,omitempty"`
	Token    string            `json:"token,omitempty"`
	Article  *ArticleResponse  `json:"article,omitempty"`
	Articles []ArticleResponse `json:"articles,omitempty"`

	CallbackURL string `json:"callbackUrl,omitempty"`
}
