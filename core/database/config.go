package database

// Config holds configuration for the catalog database connection.
type Config struct {
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Path is the database file path used by the sqlite driver.
	Path string `mapstructure:"path" default:"gallery.sqlite"`
	// Host is the database host (mysql only).
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port (mysql only).
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user (mysql only).
	User string `mapstructure:"user" default:"root"`
	// Password is the database password (mysql only).
	Password string `mapstructure:"password" default:""`
	// Name is the database name (mysql) or DSN override (sqlite, e.g. ":memory:").
	Name string `mapstructure:"name" default:""`
	// TimeoutSeconds bounds connection setup and I/O (mysql only).
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// DSN returns the sqlite data source name, preferring the Name override
// (useful for in-memory test databases) over the file path.
func (c Config) DSN() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Path
}
