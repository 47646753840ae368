package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// BehindReverseProxy enables trusting X-Forwarded headers when the
	// server runs behind a reverse proxy.
	BehindReverseProxy bool `mapstructure:"behind_reverse_proxy" default:"false"`
}
