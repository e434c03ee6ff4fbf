package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2024, 3, 9, 13, 4, 5, 123456789, loc)

	assert.Equal(t, "2024-03-09T12:04:05.123Z", FormatTime(ts))
	assert.Empty(t, FormatTime(time.Time{}))
}

func TestUserJSONNeverContainsHash(t *testing.T) {
	u := &User{ID: "u1", Username: "alice", Email: "a@x.com", PasswordHash: "$argon2id$secret"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "argon2id")

	raw, err = json.Marshal(NewUserResponse(u))
	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(string(raw)), "password")
	assert.Contains(t, string(raw), `"_id":"u1"`)
}

func TestArticleResponseShape(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	resp := NewArticleResponse(&Article{
		ID: "a1", AuthorID: "u1", Title: "T", Content: "C", AuthorName: "alice",
		CreatedAt: now, UpdatedAt: now,
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "a1", got["_id"])
	assert.Equal(t, "u1", got["authorId"])
	assert.Equal(t, "2024-01-02T03:04:05.000Z", got["createdAt"])
}

func TestEnvelopeOmitsEmptyPayload(t *testing.T) {
	raw, err := json.Marshal(Envelope{Success: false, Message: "No article found"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"No article found"}`, string(raw))
}
