package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCursor(createdAt, "5d1b2f6a-0e52-4c57-9c6e-9d6c0f1b2a3c")
	assert.NotEmpty(t, token)

	gotTime, gotID, err := DecodeCursor(token)
	assert.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, "5d1b2f6a-0e52-4c57-9c6e-9d6c0f1b2a3c", gotID)
}

func TestDecodeCursor_NonUTCInput(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, loc)

	gotTime, _, err := DecodeCursor(EncodeCursor(createdAt, "id"))
	assert.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := map[string]string{
		"not base64":     "%%%",
		"missing id":     base64.URLEncoding.EncodeToString([]byte("2026-01-01T00:00:00Z|")),
		"no separator":   base64.URLEncoding.EncodeToString([]byte("2026-01-01T00:00:00Z")),
		"malformed time": base64.URLEncoding.EncodeToString([]byte("yesterday|abc")),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := DecodeCursor(token)
			assert.Error(t, err)
		})
	}
}
