// Package driven defines the driven ports: interfaces the core services
// depend on, implemented by adapters at the edge of the hexagon.
//
// The forum API, the parser family and the clock are all injected
// through this package so the core stays free of I/O and wall-clock
// reads.
package driven
