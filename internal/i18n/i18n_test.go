package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		fallback string
		want     language.Tag
	}{
		{name: "empty header uses settings", header: "", fallback: "en", want: language.English},
		{name: "empty everything", header: "", fallback: "", want: language.German},
		{name: "regional english", header: "en-GB,en;q=0.9", fallback: "de", want: language.English},
		{name: "austrian german", header: "de-AT", fallback: "en", want: language.German},
		{name: "quality order", header: "fr;q=0.9,en;q=0.8,de;q=0.5", fallback: "de", want: language.English},
		{name: "unsupported only", header: "ja", fallback: "en", want: language.English},
		{name: "malformed header", header: ";;;", fallback: "en", want: language.English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(tt.header, tt.fallback))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Bitte geben Sie Ihren Namen ein", Message(language.German, NameRequired))
	assert.Equal(t, "Please enter your name", Message(language.English, NameRequired))
	assert.Equal(t, "Bitte geben Sie Ihren Namen ein", Message(language.French, NameRequired))
	assert.Equal(t, "no_such_key", Message(language.English, Key("no_such_key")))
}

func TestCatalogComplete(t *testing.T) {
	for key := range catalog[language.German] {
		_, ok := catalog[language.English][key]
		assert.True(t, ok, "english notice missing for %s", key)
	}
	assert.Equal(t, len(catalog[language.German]), len(catalog[language.English]))
}
