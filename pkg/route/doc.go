// Package route converts Camel route XML to and from the generic record model.
//
// The Decoder turns an element's attributes and non-step children into a
// domain.Record; the Encoder writes a record back onto an element. Both use
// the same Classifier as the diagram builder, so the outline and the diagram
// agree on which elements are steps.
//
// Basic usage:
//
//	cat := schema.Default()
//	dec := route.NewDecoder(cat)
//	rec := dec.Decode(el)
//	rec.SetString("uri", "seda:out")
//	route.NewEncoder(route.WithClassifier(route.NewClassifier(cat))).Encode(el, "", rec, "  ")
package route
