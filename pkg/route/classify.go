package route

import (
	"github.com/woq-blended/hawtio-integration/pkg/domain"
	"github.com/woq-blended/hawtio-integration/pkg/ports"
)

// Class is the role an element plays in a route.
type Class int

const (
	// Plain elements are literal nested properties.
	Plain Class = iota
	// Step elements are processing steps known to the schema.
	Step
	// Expression elements carry language-tagged text.
	Expression
)

func (c Class) String() string {
	switch c {
	case Step:
		return "step"
	case Expression:
		return "expression"
	default:
		return "plain"
	}
}

// TagExpression is the literal tag that is always treated as an expression.
const TagExpression = "expression"

// containers hold routes but are not steps themselves.
var containers = map[string]bool{
	"route":        true,
	"routes":       true,
	"camelContext": true,
	"rests":        true,
}

// IsContainer reports whether tag is a structural container whose children
// are not folded into its record.
func IsContainer(tag string) bool {
	return containers[tag]
}

// Classification is the result of Classify. Exactly one of Definition and
// Language is set for Step and Expression; for the literal "expression" tag
// Language is nil.
type Classification struct {
	Class      Class
	Definition *domain.StepDefinition
	Language   *domain.LanguageSettings
}

// Classifier decides whether a tag names a step, an expression or a plain property.
type Classifier struct {
	lookup ports.SchemaLookup
}

// NewClassifier creates a classifier over the given schema snapshot.
func NewClassifier(lookup ports.SchemaLookup) *Classifier {
	return &Classifier{lookup: lookup}
}

// Classify resolves tag. Steps win over languages when a name is both.
func (c *Classifier) Classify(tag string) Classification {
	if c == nil || c.lookup == nil {
		if tag == TagExpression {
			return Classification{Class: Expression}
		}
		return Classification{Class: Plain}
	}
	if def, ok := c.lookup.DefinitionFor(tag); ok {
		return Classification{Class: Step, Definition: def}
	}
	if lang, ok := c.lookup.LanguageSettingsFor(tag); ok {
		return Classification{Class: Expression, Language: lang}
	}
	if tag == TagExpression {
		return Classification{Class: Expression}
	}
	return Classification{Class: Plain}
}

// IsStep is shorthand for Classify(tag).Class == Step.
func (c *Classifier) IsStep(tag string) bool {
	return c.Classify(tag).Class == Step
}

// IsExpression is shorthand for Classify(tag).Class == Expression.
func (c *Classifier) IsExpression(tag string) bool {
	return c.Classify(tag).Class == Expression
}

// Definition returns the step definition for tag, if any.
func (c *Classifier) Definition(tag string) (*domain.StepDefinition, bool) {
	cls := c.Classify(tag)
	return cls.Definition, cls.Class == Step
}
