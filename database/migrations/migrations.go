// Package migrations holds the schema. Each file registers its migrations
// from init(); blank-import the package before running migration.New(db).
package migrations
