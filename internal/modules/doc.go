// Package modules boots the launcher's modules.
//
// The set of modules is fixed at compile time: [Builtin] lists a
// [Descriptor] per module and [Orchestrator.Run] installs every concrete
// descriptor into a fresh [framework.Framework], reports the bundle count
// to a progress reporter, starts the framework once and then blocks until
// it stops.
package modules
