package models

// Segment represents a single sentence-level transcript unit. Times are in
// seconds from the start of the video. Segments are immutable once produced
// by an analysis call; a full ordered sequence is swapped in atomically.
type Segment struct {
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	OriginalText   string  `json:"original_text"`
	TranslatedText string  `json:"translated_text"`
	Explanation    string  `json:"explanation,omitempty"` // empty means "no note"
}

// LanguagePair holds the source and target languages of an analysis.
type LanguagePair struct {
	Source string `json:"source_lang"`
	Target string `json:"target_lang"`
}

// AnalysisResult is the structure of a completed video analysis: the
// language pair plus the ordered segment list. Segments are expected to be
// contiguous and sorted ascending by start, but that is produced by the
// external service and is not guaranteed; consumers must not assume it.
type AnalysisResult struct {
	Languages LanguagePair `json:"video_metadata"`
	Segments  []Segment    `json:"segments"`
}
