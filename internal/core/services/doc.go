// Package services implements the core business logic.
//
// Services implement the driving ports and depend only on domain types
// and driven port interfaces. Infrastructure is injected at
// construction; the knowledge-base service holds the one store handle
// for the running instance, with its lifecycle tied to process start
// and shutdown.
package services
