// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this package
// only defines the configuration structure embedded by core/config, such as
// the listen port and reverse proxy behavior.
package server
