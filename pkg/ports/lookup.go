package ports

import "github.com/woq-blended/hawtio-integration/pkg/domain"

// SchemaLookup resolves step types and expression languages.
// Implementations are read-only snapshots; a lookup failure must surface as "absent".
type SchemaLookup interface {
	// DefinitionFor returns the definition of a step type, or false if tag is not a step.
	DefinitionFor(tag string) (*domain.StepDefinition, bool)
	// LanguageSettingsFor returns the settings of an expression language, or false.
	LanguageSettingsFor(name string) (*domain.LanguageSettings, bool)
}

// IconLookup resolves a component-specific icon for an endpoint URI scheme.
type IconLookup interface {
	IconFor(scheme string) (string, bool)
}
