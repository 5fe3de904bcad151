// Package framework hosts the launcher's modules.
//
// A module is installed as a [Bundle] from an origin string and a
// [Factory]. Each bundle has a start level; [Framework.Start] raises the
// active start level to the configured beginning level and starts every
// bundle at or below it, lowest level first and in install order within a
// level. [Framework.Stop] stops active bundles in reverse and closes the
// shutdown channel that [Framework.WaitForStop] and [Context.Done] observe.
//
// Bundles move through these states:
//
//	Installed -> Starting -> Active -> Stopping -> Resolved
//
// A bundle whose activator fails to start goes straight to Resolved and an
// [EventBundleFailed] event is published; the remaining bundles still start.
package framework
