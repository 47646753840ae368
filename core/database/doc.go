// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to configure
// the catalog database. The gallery catalog is a single sqlite file next to the
// photo tree by default; a mysql backend can be configured instead.
//
// # Connect
//
// The Connect function establishes a connection based on the configured driver.
// For sqlite it limits the pool to a single connection, since sqlite serializes
// writers anyway and concurrent reconciliation commits would otherwise hit
// SQLITE_BUSY errors.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema, used by tests and
// diagnostics to verify the photo table matches the expected model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "photo")
package database
