/*
Package hawtio models Apache Camel route XML for route editors and viewers.

It reads a route document (a camelContext, a routes element or a single route),
decodes step elements into generic property records, writes edited records back
into the XML without disturbing unrelated markup, assembles the outline shown by
tree widgets, and lays out the boxes and arrows of a route diagram.

# Concept

The Workspace is the high level entry point. It owns one parsed document loaded
from a RouteSource and keeps the derived views (records, outlines, diagrams) in
step with it. Lower level building blocks live in their own packages and can be
used directly:

  - pkg/schema: the catalog of step definitions, expression languages and icons.
  - pkg/route: classifier, decoder, encoder, outline assembler, message parsing.
  - pkg/diagram: diagram layout, highlighting and node queries.
  - pkg/adapters: route sources, diagram caches, HTTP and MCP front ends.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		hawtio "github.com/woq-blended/hawtio-integration"
		"github.com/woq-blended/hawtio-integration/pkg/adapters/memory"
	)

	func main() {
		source := memory.NewFromRoutes(`<route id="tick"><from uri="timer:tick"/><to uri="log:out"/></route>`)

		ws, err := hawtio.Open(context.Background(), source)
		if err != nil {
			log.Fatal(err)
		}

		d, err := ws.Diagram(context.Background(), "tick")
		if err != nil {
			log.Fatal(err)
		}
		for _, n := range d.Nodes {
			fmt.Println(n.ID, n.Label, n.X, n.Y)
		}
	}
*/
package hawtio
