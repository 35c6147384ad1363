// Package database provides configuration loading, Bun handle construction,
// query logging hooks, error classification, and a session factory built on
// top of the relational package.
package database
