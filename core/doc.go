// Package core holds the banking API domain model, the wire conversion layer
// and the operation set every facade delegates to. Transports and facades
// depend on this package; core depends on neither.
package core
