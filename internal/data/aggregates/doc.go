// Package aggregates implements the game write boundary on top of the table-level repos
// in internal/data/repos. It owns transactions, maps infrastructure failures onto
// domain error codes and reports every write to the observability hooks.
package aggregates
