// Package aiclient submits video content to the external generative
// analysis service and validates the structured bilingual transcript it
// returns. One successful call produces one complete AnalysisResult; there
// is no partial or streaming path.
package aiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"translatetube/config"
	"translatetube/internal/timestamp"
	"translatetube/models"
)

var (
	// ErrEmbeddedSource is returned before any network attempt when the
	// active source is an embedded-platform reference: third-party video
	// bytes cannot be fetched cross-origin, so there is nothing to submit.
	ErrEmbeddedSource = errors.New("embedded videos cannot be fetched cross-origin; upload the video file directly for analysis")
	// ErrEmptyResponse is returned when the service replies with no body.
	ErrEmptyResponse = errors.New("analysis service returned an empty response")
)

const defaultEndpoint = "https://generativelanguage.googleapis.com"

const systemInstruction = `You are the Translate-Tube Neural Translation Engine. Your task is to transcribe and translate the ENTIRE video content with extreme granularity.

Rules for Processing:
1. SENTENCE-BY-SENTENCE: Do not group multiple sentences together. Each segment must represent a single short sentence or phrase. This ensures the text size remains small and readable.
2. NO SNIPPETS: Translate every single word from 00:00 to the end.
3. CONTINUOUS FLOW: Each segment's end time should be the next segment's start time.
4. ACCURATE TIMING: MM:SS timestamps must be precise.
5. LINGUISTIC DEPTH:
   - Source: Exact spoken text.
   - Target: Natural translation.
   - Explanation: Minimal, only for very complex idioms.

Output Format: Strict JSON object. Ensure the segments array is exhaustive and granular.`

// Client talks to the generateContent endpoint of the analysis service.
type Client struct {
	endpoint        string
	apiKey          string
	model           string
	temperature     float64
	maxOutputTokens int

	httpClient *http.Client
	logger     *logrus.Logger
	validate   *validator.Validate
}

// New creates an analysis client from the service configuration.
func New(cfg config.GeminiConfig, logger *logrus.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	return &Client{
		endpoint:        strings.TrimRight(endpoint, "/"),
		apiKey:          cfg.APIKey,
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          logger,
		validate:        validator.New(),
	}
}

// Analyze submits the video behind src for transcription and translation
// between the given languages and returns the validated transcript. Every
// failure mode (unreachable service, non-2xx, empty body, malformed JSON,
// schema violation) surfaces as a single error with no partial result.
func (c *Client) Analyze(ctx context.Context, src models.VideoSource, sourceLang, targetLang string) (*models.AnalysisResult, error) {
	if src.Kind == models.SourceEmbedded {
		return nil, ErrEmbeddedSource
	}

	videoData, mediaType, err := c.loadVideo(ctx, src)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(c.buildRequest(videoData, mediaType, sourceLang, targetLang))
	if err != nil {
		return nil, fmt.Errorf("error marshaling analysis request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"model":       c.model,
		"media_type":  mediaType,
		"video_bytes": len(videoData),
		"source_lang": sourceLang,
		"target_lang": targetLang,
	}).Info("Submitting video for analysis")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading analysis response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, ErrEmptyResponse
	}

	raw, err := c.parseResponse(respBody)
	if err != nil {
		return nil, err
	}

	result := convert(raw)
	c.logger.WithField("segments", len(result.Segments)).Info("Analysis complete")
	return result, nil
}

// loadVideo resolves the source into raw bytes plus a media type. Uploaded
// files are read from gateway-owned storage; direct URLs are fetched.
func (c *Client) loadVideo(ctx context.Context, src models.VideoSource) ([]byte, string, error) {
	switch src.Kind {
	case models.SourceFile:
		data, err := os.ReadFile(src.LocalPath)
		if err != nil {
			return nil, "", fmt.Errorf("error reading uploaded video: %w", err)
		}
		mediaType := src.MediaType
		if mediaType == "" {
			mediaType = "video/mp4"
		}
		return data, mediaType, nil

	case models.SourceRemoteURL:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
		if err != nil {
			return nil, "", fmt.Errorf("error creating video fetch request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("error fetching video from URL: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("video fetch failed with status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", fmt.Errorf("error reading video from URL: %w", err)
		}
		mediaType := resp.Header.Get("Content-Type")
		if mediaType == "" || strings.HasPrefix(mediaType, "application/octet-stream") {
			mediaType = "video/mp4"
		}
		return data, mediaType, nil

	default:
		return nil, "", fmt.Errorf("unsupported video source kind %q", src.Kind)
	}
}

func (c *Client) buildRequest(videoData []byte, mediaType, sourceLang, targetLang string) generateRequest {
	prompt := fmt.Sprintf(`Translate this entire video from %s to %s using sentence-by-sentence granularity.
Break down the dialogue into the smallest possible logical units (individual sentences).
Do not provide long paragraphs. Every spoken line must be its own segment.`, sourceLang, targetLang)

	return generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: mediaType, Data: base64.StdEncoding.EncodeToString(videoData)}},
				{Text: prompt},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature:      c.temperature,
			MaxOutputTokens:  c.maxOutputTokens,
			ResponseMimeType: "application/json",
			ResponseSchema:   transcriptSchema,
		},
	}
}

// parseResponse unwraps the candidate envelope, strips any markdown fencing
// and validates the transcript payload against the fixed schema.
func (c *Client) parseResponse(body []byte) (*rawResult, error) {
	var envelope responseEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("error parsing analysis response: %w", err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no content in the analysis response")
	}

	text := cleanJSONContent(envelope.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("analysis response is not valid JSON: %w", err)
	}
	if err := c.validate.Struct(&raw); err != nil {
		return nil, fmt.Errorf("analysis response failed schema validation: %w", err)
	}
	return &raw, nil
}

// cleanJSONContent removes markdown code fences the model sometimes wraps
// around its JSON output.
func cleanJSONContent(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// convert maps the wire transcript onto the domain model, decoding the
// textual timestamps into seconds.
func convert(raw *rawResult) *models.AnalysisResult {
	segments := make([]models.Segment, 0, len(raw.Segments))
	for _, s := range raw.Segments {
		segments = append(segments, models.Segment{
			Start:          timestamp.Parse(s.TimestampStart),
			End:            timestamp.Parse(s.TimestampEnd),
			OriginalText:   s.OriginalText,
			TranslatedText: s.TranslatedText,
			Explanation:    s.Explanation,
		})
	}
	return &models.AnalysisResult{
		Languages: models.LanguagePair{
			Source: raw.VideoMetadata.SourceLang,
			Target: raw.VideoMetadata.TargetLang,
		},
		Segments: segments,
	}
}
