package domain

// StepDefinition describes a recognized step type as published by the schema.
type StepDefinition struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Tooltip     string `json:"tooltip,omitempty" yaml:"tooltip,omitempty" mapstructure:"tooltip"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty" mapstructure:"icon"`
	Group       string `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
}

// LanguageSettings describes an expression language.
type LanguageSettings struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
}
