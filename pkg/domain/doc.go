/*
Package domain contains the core data models shared by the route tooling.

It defines the decoded form of route steps, the outline tree and the diagram graph.
This package is kept pure and free of external dependencies like XML parsing or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Record: An ordered attribute map decoded from a single step element.
  - Value: A scalar, nested record, list of records or the absent marker.
  - RouteStepNode: A node of the outline tree built over a route document.
  - Diagram: The laid out graph of one route (nodes and links).
  - Message: A traced exchange with its headers and body.
  - RecordDiff: The keys a record update changes or removes.
*/
package domain
