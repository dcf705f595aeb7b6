package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/botly/internal/core/domain"
)

func TestTrainCmd_Flags(t *testing.T) {
	for _, name := range []string{"file", "url", "max-pages", "delay", "budget"} {
		assert.NotNil(t, trainCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "f", trainCmd.Flags().Lookup("file").Shorthand)
}

func TestTrainCmd_File(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("", "train", "3", "--file", "guide.pdf")

	require.NoError(t, err)
	require.Len(t, ts.training.requests, 1)
	req := ts.training.requests[0]
	assert.Equal(t, domain.ChatbotKey{UserID: 1, ChatbotID: 3}, req.Key)
	assert.Equal(t, "guide.pdf", req.File)
	assert.Empty(t, req.Website)
	assert.Equal(t, domain.CrawlOptions{}, req.Crawl)

	assert.Contains(t, out, "Trained chatbot 3")
	assert.Contains(t, out, "Chunks:     3")
	assert.Contains(t, out, "fnv-hashing-384 (384 dimensions)")
	assert.NotContains(t, out, "Pages:")
}

func TestTrainCmd_WebsiteWithCrawlFlags(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.training.result = &domain.TrainResult{Chunks: 10, Pages: 4, Truncated: true}

	out, err := executeCommand("", "train", "3", "--url", "https://example.com/",
		"--max-pages", "5", "--delay", "250ms", "--budget", "1m")

	require.NoError(t, err)
	req := ts.training.requests[0]
	assert.Equal(t, "https://example.com/", req.Website)
	assert.Equal(t, domain.CrawlOptions{MaxPages: 5, Delay: 250 * time.Millisecond, Budget: time.Minute}, req.Crawl)
	assert.Contains(t, out, "Crawling https://example.com/")
	assert.Contains(t, out, "Pages:      4")
	assert.Contains(t, out, "crawl budget ran out")
}

func TestTrainCmd_ExplicitZeroDelayDisablesSpacing(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("", "train", "3", "--url", "https://example.com/", "--delay", "0s")

	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ts.training.requests[0].Crawl.Delay)
}

func TestTrainCmd_RequiresSource(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("", "train", "3")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ts.training.requests)
}

func TestTrainCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.training.err = domain.ErrNoContent

	_, err := executeCommand("", "train", "3", "--file", "blank.txt")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoContent)
	assert.Contains(t, err.Error(), "training failed")
}
