package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "./payslip-learning.db", cfg.Store.Path)
	assert.Empty(t, cfg.Classifier.URL)
	assert.Equal(t, 0.7, cfg.Classifier.MinConfidence)
	assert.Equal(t, 5, cfg.Extract.PromotionMinCount)
	assert.Equal(t, 3, cfg.Extract.PromotionMinContexts)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("LEARNING_DB_PATH", "/tmp/learn.db")
	t.Setenv("CLASSIFIER_URL", "http://classifier.local")
	t.Setenv("CLASSIFIER_MIN_CONFIDENCE", "0.85")
	t.Setenv("CLASSIFIER_TIMEOUT", "30s")
	t.Setenv("PROMOTION_MIN_COUNT", "10")

	cfg := LoadConfig()

	assert.Equal(t, ":9999", cfg.Server.HTTPAddr)
	assert.Equal(t, "/tmp/learn.db", cfg.Store.Path)
	assert.Equal(t, "http://classifier.local", cfg.Classifier.URL)
	assert.Equal(t, 0.85, cfg.Classifier.MinConfidence)
	assert.Equal(t, 30*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 10, cfg.Extract.PromotionMinCount)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PROMOTION_MIN_COUNT", "lots")
	t.Setenv("CLASSIFIER_MIN_CONFIDENCE", "very high")

	cfg := LoadConfig()

	assert.Equal(t, 5, cfg.Extract.PromotionMinCount)
	assert.Equal(t, 0.7, cfg.Classifier.MinConfidence)
}

func TestWrapErrorPreservesChain(t *testing.T) {
	wrapped := WrapError(ErrUnreadableInput, "render document")

	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, ErrUnreadableInput)
	assert.Contains(t, wrapped.Error(), "render document")

	assert.NoError(t, WrapError(nil, "ignored"))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	appErr := NewAppError("STORE_FAILURE", "could not persist record", cause)

	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "STORE_FAILURE")
	assert.Contains(t, appErr.Error(), "boom")
}
