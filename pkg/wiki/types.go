package wiki

import (
	"encoding/json"

	"github.com/agentstation/utc"
)

// Document is the latest revision of a named wiki page, parsed as JSON.
type Document struct {
	// Name is the page title the document was read from.
	Name string

	// Content is the revision's raw JSON content.
	Content json.RawMessage

	// Revised is the timestamp of the revision that was read.
	Revised utc.Time
}

// MediaInfo describes an uploaded file resolved through the media index.
type MediaInfo struct {
	URL    string
	Width  int
	Height int

	// Fetched records when the metadata was retrieved.
	Fetched utc.Time
}

// Wire structures for api.php responses (formatversion=2).

type apiEnvelope struct {
	Error *apiError `json:"error"`
	Query *apiQuery `json:"query"`
	Edit  *apiEdit  `json:"edit"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type apiQuery struct {
	Pages      []apiPage      `json:"pages"`
	Normalized []apiNormalize `json:"normalized"`
	Tokens     *apiTokens     `json:"tokens"`
}

type apiPage struct {
	Title     string         `json:"title"`
	Missing   bool           `json:"missing"`
	Revisions []apiRevision  `json:"revisions"`
	ImageInfo []apiImageInfo `json:"imageinfo"`
}

type apiRevision struct {
	Content   string   `json:"content"`
	Timestamp utc.Time `json:"timestamp"`
}

type apiImageInfo struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type apiNormalize struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type apiTokens struct {
	CSRFToken string `json:"csrftoken"`
}

type apiEdit struct {
	Result string `json:"result"`
}
