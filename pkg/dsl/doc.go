/*
Package dsl provides a Go DSL for programmatically constructing Camel route documents.

It allows developers to define routes with a fluent builder, in the spirit of the Camel
Java DSL, instead of writing XML by hand. This is particularly useful for generated
routes, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	b := dsl.New("camel-1")

	b.Route("orders").
		From("jms:queue:orders").
		Choice().
		When("simple", "${header.priority} == 'high'").To("direct:priority").End().
		Otherwise().To("direct:standard").End().
		End().
		Log("processed ${body}")

	// The resulting source can be opened as a workspace.
	source, err := b.Build()
	// ... hawtio.Open(ctx, source)

Block steps (Choice, When, Otherwise, Filter, Split, Step) return a builder for their
children; End returns to the enclosing block.
*/
package dsl
