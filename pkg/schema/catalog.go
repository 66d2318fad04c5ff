package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// DefaultIcon is used for steps whose definition names no icon.
const DefaultIcon = "generic24.png"

// IconBase is the path prefix of step icons.
const IconBase = "img/icons/camel/"

// Catalog is an immutable snapshot of step definitions, expression languages
// and endpoint icons. It implements ports.SchemaLookup and ports.IconLookup.
type Catalog struct {
	steps     map[string]*domain.StepDefinition
	languages map[string]*domain.LanguageSettings
	icons     map[string]string
}

// rawCatalog accepts both the compact catalog layout ("steps") and the
// exported model layout ("definitions"), where entries carry many more fields.
type rawCatalog struct {
	Steps       map[string]map[string]any `yaml:"steps"`
	Definitions map[string]map[string]any `yaml:"definitions"`
	Languages   map[string]map[string]any `yaml:"languages"`
	Icons       map[string]string         `yaml:"icons"`
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("schema: embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML or JSON file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a catalog from r. JSON input is accepted as a YAML subset.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		steps:     make(map[string]*domain.StepDefinition),
		languages: make(map[string]*domain.LanguageSettings),
		icons:     make(map[string]string),
	}

	var errs []error
	for _, section := range []map[string]map[string]any{raw.Definitions, raw.Steps} {
		for name, entry := range section {
			def := &domain.StepDefinition{}
			if err := decodeEntry(entry, def); err != nil {
				errs = append(errs, &EntryError{Section: "steps", Key: name, Err: err})
				continue
			}
			if def.Name == "" {
				def.Name = name
			}
			c.steps[name] = def
		}
	}
	for name, entry := range raw.Languages {
		lang := &domain.LanguageSettings{}
		if err := decodeEntry(entry, lang); err != nil {
			errs = append(errs, &EntryError{Section: "languages", Key: name, Err: err})
			continue
		}
		if lang.Name == "" {
			lang.Name = name
		}
		c.languages[name] = lang
	}
	for scheme, icon := range raw.Icons {
		c.icons[scheme] = iconURL(icon)
	}

	if len(errs) > 0 {
		sortEntryErrors(errs)
		return nil, &AggregateError{Errors: errs}
	}
	return c, nil
}

func decodeEntry(entry map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(entry)
}

func sortEntryErrors(errs []error) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Error() < errs[j].Error()
	})
}

// DefinitionFor implements ports.SchemaLookup.
func (c *Catalog) DefinitionFor(tag string) (*domain.StepDefinition, bool) {
	if c == nil || tag == "" {
		return nil, false
	}
	def, ok := c.steps[tag]
	return def, ok
}

// LanguageSettingsFor implements ports.SchemaLookup.
func (c *Catalog) LanguageSettingsFor(name string) (*domain.LanguageSettings, bool) {
	if c == nil || name == "" {
		return nil, false
	}
	lang, ok := c.languages[name]
	return lang, ok
}

// IconFor implements ports.IconLookup.
func (c *Catalog) IconFor(scheme string) (string, bool) {
	if c == nil || scheme == "" {
		return "", false
	}
	icon, ok := c.icons[scheme]
	return icon, ok
}

// Steps returns the known step names, sorted.
func (c *Catalog) Steps() []string {
	return sortedKeys(c.steps)
}

// Languages returns the known language names, sorted.
func (c *Catalog) Languages() []string {
	return sortedKeys(c.languages)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IconPath returns the icon path for a step definition, or "" when def is nil.
func IconPath(def *domain.StepDefinition) string {
	if def == nil {
		return ""
	}
	name := def.Icon
	if name == "" {
		name = DefaultIcon
	}
	return iconURL(name)
}

// iconURL joins bare icon names onto IconBase and leaves paths alone.
func iconURL(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return IconBase + name
}
