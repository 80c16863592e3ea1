package aiclient_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translatetube/config"
	"translatetube/internal/aiclient"
	"translatetube/models"
)

const validTranscript = `{
	"video_metadata": {"source_lang": "Arabic", "target_lang": "German"},
	"segments": [
		{"timestamp_start": "00:00", "timestamp_end": "00:05", "original_text": "مرحبا", "translated_text": "Hallo", "explanation": ""},
		{"timestamp_start": "00:05", "timestamp_end": "01:30", "original_text": "كيف حالك", "translated_text": "Wie geht es dir", "explanation": "greeting idiom"}
	]
}`

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// envelope wraps transcript text in the candidates/content/parts response
// shape the service uses.
func envelope(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(b)
}

func newClient(t *testing.T, endpoint string) *aiclient.Client {
	t.Helper()
	return aiclient.New(config.GeminiConfig{
		APIKey:   "test-key",
		Model:    "gemini-3-flash-preview",
		Endpoint: endpoint,
	}, quietLogger())
}

func writeTempVideo(t *testing.T) models.VideoSource {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake video bytes"), 0644))
	return models.VideoSource{Kind: models.SourceFile, LocalPath: path, MediaType: "video/mp4"}
}

func TestAnalyzeSuccess(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-3-flash-preview:generateContent")

		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Contains(t, req, "systemInstruction")
		assert.Contains(t, req, "contents")

		fmt.Fprint(w, envelope(validTranscript))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	result, err := client.Analyze(context.Background(), writeTempVideo(t), "Arabic", "German")
	require.NoError(t, err)
	require.Len(t, result.Segments, 2)

	assert.Equal(t, "Arabic", result.Languages.Source)
	assert.Equal(t, "German", result.Languages.Target)
	assert.Equal(t, 0.0, result.Segments[0].Start)
	assert.Equal(t, 5.0, result.Segments[0].End)
	assert.Equal(t, 5.0, result.Segments[1].Start)
	assert.Equal(t, 90.0, result.Segments[1].End)
	assert.Equal(t, "Hallo", result.Segments[0].TranslatedText)
	assert.Equal(t, "greeting idiom", result.Segments[1].Explanation)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestAnalyzeStripsMarkdownFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, envelope("```json\n"+validTranscript+"\n```"))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	result, err := client.Analyze(context.Background(), writeTempVideo(t), "Arabic", "German")
	require.NoError(t, err)
	assert.Len(t, result.Segments, 2)
}

func TestAnalyzeRefusesEmbeddedSourceWithoutNetwork(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	src := models.VideoSource{Kind: models.SourceEmbedded, EmbeddedID: "dQw4w9WgXcQ"}

	_, err := client.Analyze(context.Background(), src, "Arabic", "German")
	assert.ErrorIs(t, err, aiclient.ErrEmbeddedSource)
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls), "no transport call may be attempted")
}

func TestAnalyzeFailureModes(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"service error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {}},
		{"malformed envelope", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "{not json")
		}},
		{"no candidates", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"candidates": []}`)
		}},
		{"malformed transcript JSON", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, envelope("{\"video_metadata\": oops"))
		}},
		{"schema violation", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, envelope(`{
				"video_metadata": {"source_lang": "Arabic", "target_lang": "German"},
				"segments": [{"timestamp_start": "00:00", "original_text": "a", "translated_text": "b", "explanation": ""}]
			}`))
		}},
		{"empty segment list", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, envelope(`{"video_metadata": {"source_lang": "Arabic", "target_lang": "German"}, "segments": []}`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client := newClient(t, server.URL)
			result, err := client.Analyze(context.Background(), writeTempVideo(t), "Arabic", "German")
			assert.Error(t, err)
			assert.Nil(t, result, "no partial result on failure")
		})
	}
}

func TestAnalyzeFetchesRemoteURL(t *testing.T) {
	videoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/webm")
		w.Write([]byte("remote video bytes"))
	}))
	defer videoServer.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"mimeType":"video/webm"`)
		fmt.Fprint(w, envelope(validTranscript))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	src := models.VideoSource{Kind: models.SourceRemoteURL, URL: videoServer.URL + "/clip.webm"}

	result, err := client.Analyze(context.Background(), src, "Arabic", "German")
	require.NoError(t, err)
	assert.Len(t, result.Segments, 2)
}

func TestAnalyzeMissingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("must not reach the service when the upload is unreadable")
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	src := models.VideoSource{Kind: models.SourceFile, LocalPath: "/nonexistent/clip.mp4"}

	_, err := client.Analyze(context.Background(), src, "Arabic", "German")
	assert.Error(t, err)
}
