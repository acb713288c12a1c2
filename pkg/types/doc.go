// Package types provides common type definitions shared across the
// reconciliation pipeline. It holds small identifier types only; domain
// structs live in pkg/catalog.
package types
