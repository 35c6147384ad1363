// Package relational provides lazily opened database sessions with optional
// implicit transactions, command descriptors, scalar/stream/multi-result-set
// execution, and an ambient current-session accessor, built on top of Bun.
package relational
