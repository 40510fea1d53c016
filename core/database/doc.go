// Package database handles database connections and schema inspection.
//
// It wraps GORM and selects the dialect from configuration: sqlite for local and
// test use, mysql or postgres for deployments. Connect verifies the connection with
// a ping before returning it.
//
// # Schema Inspection
//
// GetTableColumns reads the live column list of a table (PRAGMA table_info,
// information_schema or SHOW COLUMNS depending on the dialect). The integrity
// feature uses it to compare the relational store against the GORM models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "pokemon_move_learnset")
package database
