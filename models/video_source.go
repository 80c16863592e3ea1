package models

import "regexp"

// SourceKind discriminates the origin of the active video.
type SourceKind string

const (
	// SourceFile is a locally uploaded file, copied into gateway-owned storage.
	SourceFile SourceKind = "file"
	// SourceRemoteURL is a direct URL to a media file.
	SourceRemoteURL SourceKind = "remote_url"
	// SourceEmbedded is a third-party hosting-platform video, referenced by ID.
	SourceEmbedded SourceKind = "embedded"
)

// VideoSource is the user-selected origin of video content. Exactly one
// source is active at a time; selecting a new one invalidates any previous
// analysis results and releases the previous source's local resources.
type VideoSource struct {
	Kind SourceKind `json:"kind"`

	// LocalPath is the gateway-owned copy of an uploaded file. Only set for
	// SourceFile. The owner must remove it when the source is superseded.
	LocalPath string `json:"-"`
	// MediaType is the declared media type of the uploaded file.
	MediaType string `json:"media_type,omitempty"`

	// URL is the direct media URL. Only set for SourceRemoteURL.
	URL string `json:"url,omitempty"`

	// EmbeddedID is the hosting-platform video ID. Only set for SourceEmbedded.
	EmbeddedID string `json:"embedded_id,omitempty"`
}

// embeddedIDPattern matches the video ID in the common URL shapes of the
// hosting platform: watch?v=, /embed/, /v/, youtu.be/ short links.
var embeddedIDPattern = regexp.MustCompile(`(?:youtu\.be/|/v/|/u/\w/|/embed/|watch\?v=|&v=)([^#&?]*)`)

// ExtractEmbeddedID pulls a hosting-platform video ID out of a pasted URL.
// IDs are exactly 11 characters; anything else means the URL is not an
// embedded-platform link and should be treated as a direct media URL.
func ExtractEmbeddedID(url string) (string, bool) {
	m := embeddedIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	if len(m[1]) != 11 {
		return "", false
	}
	return m[1], true
}
