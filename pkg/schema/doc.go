// Package schema provides the step catalog consulted by the route decoder,
// the outline and the diagram builder.
//
// A catalog maps step tag names (route, from, to, choice, filter, ...) to
// their display definitions, expression-language names to their settings,
// and endpoint URI schemes to icons. It is read from YAML:
//
//	steps:
//	  filter:
//	    title: Filter
//	    description: Filter out messages based using a predicate
//	    icon: filter24.png
//	languages:
//	  simple:
//	    description: Simple expression language
//	icons:
//	  jms: jms24.png
//
// The exported model layout, where steps live under "definitions" and carry
// many more fields, is accepted as well; unknown fields are ignored.
//
// Basic usage:
//
//	catalog := schema.Default()
//	if def, ok := catalog.DefinitionFor("filter"); ok {
//	    fmt.Println(def.Title)
//	}
//
// A Catalog is immutable once parsed and safe for concurrent use.
package schema
