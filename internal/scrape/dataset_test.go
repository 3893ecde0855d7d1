package scrape

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordsFollowItemOrder(t *testing.T) {
	assert.Equal(t, []string{"ai automation", "dataset generation", "machine learning"}, Keywords())

	for i, item := range Items() {
		assert.Equal(t, item.Keyword, Keywords()[i])
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	first := Items()
	first[0].Keyword = "mutated"

	assert.Equal(t, "ai automation", Items()[0].Keyword)
	assert.Equal(t, "ai automation", BuildPreview()[0].KeywordUsed)
}

func TestBuildPreview(t *testing.T) {
	preview := BuildPreview()
	require.Len(t, preview, 3)

	assert.Equal(t, "Sample title for ai automation", preview[0].Title)
	assert.Equal(t, "https://example.com/article", preview[0].URL)
	assert.Equal(t, "This is scraped content for keyword: ai automation.", preview[0].Content)
	assert.Equal(t, "ai automation", preview[0].KeywordUsed)

	assert.Equal(t, "dataset generation", preview[1].KeywordUsed)
	assert.Equal(t, "machine learning", preview[2].KeywordUsed)
}

func TestNewNotification(t *testing.T) {
	n := NewNotification(json.RawMessage(`"abc123"`))

	assert.Equal(t, len(n.Preview), n.TotalItems)
	assert.Equal(t, 3, n.TotalItems)
	assert.Equal(t, DownloadLink, n.DownloadLink)
	assert.Empty(t, n.ErrorMessage)

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "abc123", decoded["promptId"])
	assert.Equal(t, float64(3), decoded["totalItems"])
	assert.Equal(t, "", decoded["errorMessage"])
	assert.Equal(t, "https://example.com/generated-dataset.zip", decoded["downloadLink"])

	entry := decoded["preview"].([]any)[0].(map[string]any)
	assert.Contains(t, entry, "keywordUsed")
	assert.Contains(t, entry, "title")
}

func TestNewNotificationKeepsPromptIDVerbatim(t *testing.T) {
	n := NewNotification(json.RawMessage(`12345678901234567890`))

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"promptId":12345678901234567890`)
}
