package domain

import "errors"

var (
	// ErrRouteNotFound is returned when no route carries the requested id.
	ErrRouteNotFound = errors.New("route not found")
	// ErrStepNotFound is returned when no outline node carries the requested key.
	ErrStepNotFound = errors.New("step not found")
	// ErrNoRoutes is returned when a document holds no route element.
	ErrNoRoutes = errors.New("no routes")
	// ErrInvalidXML is returned when route XML cannot be parsed.
	ErrInvalidXML = errors.New("invalid route xml")
	// ErrCacheMiss is returned by diagram caches when the key is unknown.
	ErrCacheMiss = errors.New("cache miss")
)
