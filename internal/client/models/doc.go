// Package models defines the data the CLI keeps in memory and in its local
// SQLite cache.
package models
