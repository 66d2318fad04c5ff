/*
Package ports defines the driven ports (interfaces) of the route tooling.

These interfaces decouple the XML transforms from the places route documents,
schema information and built diagrams come from or go to.

# Key Interfaces

  - SchemaLookup: resolves step definitions and expression languages (e.g. schema.Catalog).
  - IconLookup: resolves component icons for endpoint URI schemes.
  - RouteSource: supplies the route XML document (file, memory, management dump).
  - WatchableSource: a RouteSource that signals backend changes.
  - DiagramCache: stores built diagrams (e.g. Redis).
*/
package ports
