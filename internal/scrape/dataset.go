package scrape

import (
	"encoding/json"

	"github.com/oranjParker/mlapi/internal/core"
)

const (
	DownloadLink = "https://example.com/generated-dataset.zip"
	sampleURL    = "https://example.com/article"
)

// items stands in for a real scrape run. Order matters: it drives both the
// preview order and the generated keyword order.
var items = [...]core.ScrapeItem{
	{
		Keyword: "ai automation",
		URL:     sampleURL,
		Content: "This is scraped content for keyword: ai automation.",
	},
	{
		Keyword: "dataset generation",
		URL:     sampleURL,
		Content: "This is scraped content for keyword: dataset generation.",
	},
	{
		Keyword: "machine learning",
		URL:     sampleURL,
		Content: "This is scraped content for keyword: machine learning.",
	},
}

// Items returns a copy of the sample scrape results.
func Items() []core.ScrapeItem {
	out := make([]core.ScrapeItem, len(items))
	copy(out, items[:])
	return out
}

func Keywords() []string {
	out := make([]string, 0, len(items))
	for _, item := range Items() {
		out = append(out, item.Keyword)
	}
	return out
}

func BuildPreview() []core.PreviewEntry {
	preview := make([]core.PreviewEntry, 0, len(items))
	for _, item := range Items() {
		preview = append(preview, core.PreviewEntry{
			Title:       "Sample title for " + item.Keyword,
			URL:         item.URL,
			Content:     item.Content,
			KeywordUsed: item.Keyword,
		})
	}
	return preview
}

// NewNotification builds the payload sent to the collaborator once the fake
// scrape for promptID is done.
func NewNotification(promptID json.RawMessage) *core.ScrapeNotification {
	preview := BuildPreview()
	return &core.ScrapeNotification{
		PromptID:     promptID,
		Preview:      preview,
		DownloadLink: DownloadLink,
		TotalItems:   len(preview),
		ErrorMessage: "",
	}
}
