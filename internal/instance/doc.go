// Package instance keeps a single launcher process per home directory.
//
// The first launch takes an advisory file lock on <home>/.lock, listens on a
// loopback port and records the address in <home>/.lock.yaml. A later
// launch finds the lock held, dials the recorded address and sends its
// argument vector as one JSON line. The running instance answers "ok" and
// delivers the vector on [Lock.Forwarded].
package instance
