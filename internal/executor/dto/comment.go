package dto

// RawComment is a community comment as returned by a comment source.
// WrittenAt keeps the source's own format, often relative ("3시간 전").
type RawComment struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	Likes     int    `json:"likes"`
	WrittenAt string `json:"written_at"`
}

// SummaryResult is the expected JSON structure of a summarization response.
type SummaryResult struct {
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// ClassificationResult is the expected JSON structure of a classification response.
type ClassificationResult struct {
	Sentiments []string `json:"sentiments"`
}
