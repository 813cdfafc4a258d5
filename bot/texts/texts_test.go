package texts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFormatsArgs(t *testing.T) {
	got := Text("welcome_back", LangES, "Ana")
	assert.Equal(t, "¡Bienvenido de nuevo, Ana! ¿En qué podemos ayudarle hoy?", got)

	got = Text("session_resumed", LangEN, "Ana", "Hours")
	assert.Contains(t, got, "Ana")
	assert.Contains(t, got, "Hours")
}

func TestTextFallsBackToSpanish(t *testing.T) {
	assert.Equal(t, Text("welcome", LangES), Text("welcome", "fr"))
}

func TestTextUnknownKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "does_not_exist", Text("does_not_exist", LangEN))
}

func TestOptionsParity(t *testing.T) {
	for _, key := range []string{"menu_options", "hours", "contact", "services", "location"} {
		es := Options(key, LangES)
		en := Options(key, LangEN)
		require.NotEmpty(t, es, key)
		assert.Len(t, en, len(es), key)
	}
}

func TestOptionsFallback(t *testing.T) {
	assert.Equal(t, Options("menu_options", LangES), Options("menu_options", "pt"))
	assert.Nil(t, Options("nope", LangEN))
}

func TestCatalogParity(t *testing.T) {
	for key := range catalog[LangES] {
		en, ok := catalog[LangEN][key]
		require.True(t, ok, "missing en key %q", key)
		assert.Equal(t,
			strings.Count(catalog[LangES][key], "%s"),
			strings.Count(en, "%s"),
			"placeholder count mismatch for %q", key)
	}
}
