// Package server holds the HTTP server configuration.
//
// The start command owns the fiber application; this package only defines the
// settings it reads (port, admin API key, environment).
package server
