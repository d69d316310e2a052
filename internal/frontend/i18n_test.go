package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_Detect(t *testing.T) {
	tr, err := NewTranslator()
	require.NoError(t, err)

	tests := []struct {
		name, cookie, accept, want string
	}{
		{"cookie wins", "en", "ja", "en"},
		{"unknown cookie ignored", "fr", "en-US,en;q=0.8", "en"},
		{"accept language", "", "en-GB", "en"},
		{"unsupported language", "", "de-DE", "ja"},
		{"nothing", "", "", "ja"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Detect(tt.cookie, tt.accept))
		})
	}
}

func TestMessages(t *testing.T) {
	tr, err := NewTranslator()
	require.NoError(t, err)

	en := tr.Messages("en")
	assert.Equal(t, "1 chart", en.N("user_total_charts", 1))
	assert.Equal(t, "5 charts", en.N("user_total_charts", 5))
	assert.Equal(t, "Page not found", en.T("notfound_title"))
	assert.Equal(t, "missing_key", en.T("missing_key"))

	ja := tr.Messages("ja")
	assert.Equal(t, "5譜面", ja.N("user_total_charts", 5))
}
