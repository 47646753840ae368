// Package config provides configuration management for the photo gallery.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, reverse proxy flag)
//   - Database: catalog connection details (SQLite or MySQL)
//   - Log: Logging level and format
//   - Gallery: photo/cache directories, indexing, sort and rendition settings
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Gallery.PhotosDir)
package config
