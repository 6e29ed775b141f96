// Package services implements the driving port interfaces.
// Services contain the reconciliation engine and the content stores,
// and orchestrate calls to driven ports (adapters).
package services
