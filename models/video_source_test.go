package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"translatetube/models"
)

func TestExtractEmbeddedID(t *testing.T) {
	cases := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"watch link", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch link with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link with fragment", "https://youtu.be/dQw4w9WgXcQ#t=10", "dQw4w9WgXcQ", true},
		{"embed link", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"legacy v link", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"direct media URL", "https://example.com/videos/clip.mp4", "", false},
		{"id too short", "https://www.youtube.com/watch?v=abc", "", false},
		{"id too long", "https://www.youtube.com/watch?v=dQw4w9WgXcQextra", "", false},
		{"empty string", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := models.ExtractEmbeddedID(tc.url)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestIsSupportedLanguage(t *testing.T) {
	for _, lang := range models.SupportedLanguages {
		assert.True(t, models.IsSupportedLanguage(lang), lang)
	}
	assert.False(t, models.IsSupportedLanguage("Klingon"))
	assert.False(t, models.IsSupportedLanguage("arabic"), "matching is case sensitive")
	assert.False(t, models.IsSupportedLanguage(""))
}
