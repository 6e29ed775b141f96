// Package driving defines the driving ports: the read APIs the host
// application (web views, CLI) calls into the core through.
//
// All operations return plain structured values with no framework
// dependency; turning them into HTTP responses is the host's concern.
package driving
