package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  kind: local_compatible
  endpoint: http://localhost:11434/v1
  model: mistral
  hybrid_retrieval: true
  hosted:
    model: gemini-2.5-flash
search:
  provider: searxng
  searxng:
    base_url: http://localhost:8080
timeouts:
  retrieve: 30s
log:
  level: debug
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, LocalCompatible, cfg.Provider.Kind)
	assert.True(t, cfg.Provider.Hybrid())
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Retrieve)
	assert.Equal(t, 120*time.Second, cfg.Timeouts.Synthesize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":8000", cfg.Server.Addr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  kind: carrier_pigeon\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestProviderConfig_HybridIgnoredForHosted(t *testing.T) {
	c := ProviderConfig{Kind: HostedSearch, HybridRetrieval: true, Hosted: HostedConfig{Model: "gemini-2.5-flash"}}
	require.NoError(t, c.Validate())
	assert.False(t, c.Hybrid())
}

func TestProviderConfig_Validate(t *testing.T) {
	assert.Error(t, ProviderConfig{Kind: LocalCompatible, Model: "llama3"}.Validate())
	assert.Error(t, ProviderConfig{Kind: LocalCompatible, Endpoint: "http://x", Model: "llama3", HybridRetrieval: true}.Validate())
	assert.NoError(t, Default().Provider.Validate())
}

func TestProviderConfig_Redacted(t *testing.T) {
	c := ProviderConfig{Credential: "sk-1", Hosted: HostedConfig{APIKey: "g-1"}}
	r := c.Redacted()
	assert.Equal(t, "***", r.Credential)
	assert.Equal(t, "***", r.Hosted.APIKey)
	assert.Equal(t, "sk-1", c.Credential)
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore(Default().Provider)
	snap := s.Get()

	next := snap
	next.Model = "qwen2"
	require.NoError(t, s.Set(next))

	assert.Equal(t, "llama3", snap.Model)
	assert.Equal(t, "qwen2", s.Get().Model)
}

func TestStore_SetRejectsInvalid(t *testing.T) {
	s := NewStore(Default().Provider)
	err := s.Set(ProviderConfig{Kind: "bogus"})
	require.Error(t, err)
	assert.Equal(t, "llama3", s.Get().Model)
}

func TestProviderConfig_HostedUsesTopLevelFields(t *testing.T) {
	c := ProviderConfig{Kind: HostedSearch, Model: "gemini-2.5-pro", Credential: "k"}
	require.NoError(t, c.Validate())
	h := c.HostedConnection()
	assert.Equal(t, "gemini-2.5-pro", h.Model)
	assert.Equal(t, "k", h.APIKey)

	// 顶层为空时回落到 hosted 段
	c = ProviderConfig{Kind: HostedSearch, Hosted: HostedConfig{Model: "gemini-2.5-flash", APIKey: "env", Endpoint: "https://proxy"}}
	h = c.HostedConnection()
	assert.Equal(t, "gemini-2.5-flash", h.Model)
	assert.Equal(t, "env", h.APIKey)
	assert.Equal(t, "https://proxy", h.Endpoint)

	assert.Error(t, ProviderConfig{Kind: HostedSearch}.Validate())
}

func TestProviderConfig_LocalKeepsHostedSection(t *testing.T) {
	c := ProviderConfig{Kind: LocalCompatible, Endpoint: "http://x", Model: "llama3", Hosted: HostedConfig{Model: "gemini-2.5-flash"}}
	assert.Equal(t, "gemini-2.5-flash", c.HostedConnection().Model)
}

func TestProviderConfig_HybridVia(t *testing.T) {
	c := ProviderConfig{Kind: LocalCompatible, Endpoint: "http://x", Model: "llama3"}
	assert.Equal(t, HybridSource(""), c.HybridVia())

	c.HybridRetrieval = true
	c.Hosted.Model = "gemini-2.5-flash"
	assert.Equal(t, HybridViaHosted, c.HybridVia())

	c.HybridSource = HybridViaSearch
	c.Hosted.Model = ""
	assert.Equal(t, HybridViaSearch, c.HybridVia())
	require.NoError(t, c.Validate())

	c.HybridSource = "carrier_pigeon"
	assert.Error(t, c.Validate())

	c.HybridRetrieval = false
	assert.Equal(t, HybridSource(""), c.HybridVia())
}
