package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	def, ok := c.DefinitionFor("choice")
	require.True(t, ok)
	assert.Equal(t, "Choice", def.Title)
	assert.Equal(t, "choice", def.Name)
	assert.Equal(t, "img/icons/camel/choice24.png", IconPath(def))

	_, ok = c.DefinitionFor("simple")
	assert.False(t, ok, "languages are not steps")

	lang, ok := c.LanguageSettingsFor("simple")
	require.True(t, ok)
	assert.Equal(t, "simple", lang.Name)

	icon, ok := c.IconFor("activemq")
	require.True(t, ok)
	assert.Equal(t, "img/icons/camel/endpointQueue24.png", icon)

	assert.Contains(t, c.Steps(), "route")
	assert.Contains(t, c.Languages(), "xpath")
}

func TestLoad_DefinitionsLayout(t *testing.T) {
	doc := `{
  "definitions": {
    "log": {"title": "Log", "icon": "log24.png", "group": "Miscellaneous", "properties": {"message": {"type": "string"}}},
    "to": {"title": "To"}
  },
  "languages": {"simple": {"description": "Simple language"}},
  "icons": {"custom": "/static/custom.svg"}
}`
	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	def, ok := c.DefinitionFor("log")
	require.True(t, ok)
	assert.Equal(t, "Log", def.Title)
	assert.Equal(t, "Miscellaneous", def.Group)

	to, ok := c.DefinitionFor("to")
	require.True(t, ok)
	assert.Equal(t, "img/icons/camel/generic24.png", IconPath(to))

	icon, ok := c.IconFor("custom")
	require.True(t, ok)
	assert.Equal(t, "/static/custom.svg", icon)
}

func TestLoad_InvalidEntry(t *testing.T) {
	doc := `
steps:
  bad:
    title: [not, a, string]
  good:
    title: Good
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)

	errs := Errors(err)
	require.Len(t, errs, 1)
	var entry *EntryError
	require.ErrorAs(t, errs[0], &entry)
	assert.Equal(t, "bad", entry.Key)
}

func TestLoad_MalformedDocument(t *testing.T) {
	_, err := Load(strings.NewReader("steps: [unclosed"))
	assert.Error(t, err)
}

func TestCatalog_NilSafe(t *testing.T) {
	var c *Catalog
	_, ok := c.DefinitionFor("to")
	assert.False(t, ok)
	_, ok = c.IconFor("file")
	assert.False(t, ok)
	assert.Empty(t, IconPath((*domain.StepDefinition)(nil)))
}
