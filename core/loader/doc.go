// Package loader registers the HTTP features of the server.
//
// A feature bundles a service with its fiber routes and implements:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The start command registers every feature with a Manager and calls LoadAll
// once the middleware is in place. Disabled features stay registered but add
// no routes, and the first Load error aborts startup with the feature's name.
package loader
