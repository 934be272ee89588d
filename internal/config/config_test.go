package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("LEGISCAN_API_KEY", "ls-key")
	t.Setenv("WEBFLOW_TOKEN", "wf-token")
	t.Setenv("WEBFLOW_COLLECTION_ID", "coll-1")
	t.Setenv("ALLOWED_ORIGIN", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ls-key", cfg.LegiScanAPIKey)
	assert.Equal(t, "wf-token", cfg.WebflowToken)
	assert.Equal(t, "coll-1", cfg.CollectionID)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("LEGISCAN_API_KEY", "")
	t.Setenv("WEBFLOW_TOKEN", "wf-token")
	t.Setenv("WEBFLOW_COLLECTION_ID", "coll-1")

	_, err := Load()
	assert.Error(t, err)
}
