package core

import (
	"context"
	"encoding/json"
)

// InferenceRequest is the decoded body of POST /process. PromptID is kept raw so
// it can be forwarded to the collaborator exactly as the caller sent it.
type InferenceRequest struct {
	Prompt   string          `json:"prompt"`
	PromptID json.RawMessage `json:"promptId,omitempty"`
}

type InferenceResult struct {
	Keywords []string
	Vector   []float64
}

type InferenceResponse struct {
	Status            string    `json:"status"`
	GeneratedKeywords []string  `json:"generated_keywords"`
	Vector            []float64 `json:"vector"`
	Message           string    `json:"message"`
}

type ScrapeItem struct {
	Keyword string `json:"keyword"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type PreviewEntry struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	KeywordUsed string `json:"keywordUsed"`
}

type ScrapeNotification struct {
	PromptID     json.RawMessage `json:"promptId"`
	Preview      []PreviewEntry  `json:"preview"`
	DownloadLink string          `json:"downloadLink"`
	TotalItems   int             `json:"totalItems"`
	ErrorMessage string          `json:"errorMessage"`
}

type Sink[T any] interface {
	Write(ctx context.Context, item T) error
	Close() error
}
