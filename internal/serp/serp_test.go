package serp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(r *Registry) []string {
	var out []string
	for _, e := range r.Engines() {
		out = append(out, e.Name())
	}
	return out
}

func TestNewRegistryFromConfig(t *testing.T) {
	reg, err := NewRegistryFromConfig(RegistryConfig{
		Engines:    []string{"DuckDuckGo", "bing", "mojeek", "searxng", "bing", "brave"},
		SearxngURL: "https://searx.example/search",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"duckduckgo", "bing", "mojeek", "searxng"}, names(reg))

	sx := reg.Engines()[3].(*Searxng)
	assert.Equal(t, "https://searx.example/search", sx.Endpoint)

	reg, err = NewRegistryFromConfig(RegistryConfig{Engines: []string{"brave"}, BraveAPIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, []string{"brave"}, names(reg))

	_, err = NewRegistryFromConfig(RegistryConfig{Engines: []string{"altavista"}})
	assert.EqualError(t, err, `serp: unknown engine "altavista"`)
}

func TestRegistry_EnginesIsCopy(t *testing.T) {
	reg := &Registry{}
	reg.Register(NewBing(nil))
	engines := reg.Engines()
	engines[0] = nil
	assert.NotNil(t, reg.Engines()[0])
	assert.True(t, Known(" Mojeek"))
	assert.False(t, Known("google"))
}
