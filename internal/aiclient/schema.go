package aiclient

// Wire types for the generateContent endpoint.

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

type schema struct {
	Type       string             `json:"type"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Items      *schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// transcriptSchema constrains the service to the fixed transcript shape:
// video metadata plus an ordered segment array, every field required
// (explanation may still be an empty string).
var transcriptSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"video_metadata": {
			Type: "OBJECT",
			Properties: map[string]*schema{
				"source_lang": {Type: "STRING"},
				"target_lang": {Type: "STRING"},
			},
			Required: []string{"source_lang", "target_lang"},
		},
		"segments": {
			Type: "ARRAY",
			Items: &schema{
				Type: "OBJECT",
				Properties: map[string]*schema{
					"timestamp_start": {Type: "STRING"},
					"timestamp_end":   {Type: "STRING"},
					"original_text":   {Type: "STRING"},
					"translated_text": {Type: "STRING"},
					"explanation":     {Type: "STRING"},
				},
				Required: []string{"timestamp_start", "timestamp_end", "original_text", "translated_text", "explanation"},
			},
		},
	},
	Required: []string{"video_metadata", "segments"},
}

type responseEnvelope struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content struct {
		Parts []responsePart `json:"parts"`
	} `json:"content"`
}

type responsePart struct {
	Text string `json:"text,omitempty"`
}

// rawResult is the transcript payload as it arrives on the wire, before
// timestamp decoding. Timestamps and metadata are hard requirements;
// segment texts are tolerated empty and render blank.
type rawResult struct {
	VideoMetadata rawMetadata  `json:"video_metadata" validate:"required"`
	Segments      []rawSegment `json:"segments" validate:"required,min=1,dive"`
}

type rawMetadata struct {
	SourceLang string `json:"source_lang" validate:"required"`
	TargetLang string `json:"target_lang" validate:"required"`
}

type rawSegment struct {
	TimestampStart string `json:"timestamp_start" validate:"required"`
	TimestampEnd   string `json:"timestamp_end" validate:"required"`
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	Explanation    string `json:"explanation"`
}
