// Package paths resolves the jitsi home directories before any other
// subsystem touches disk.
//
// # Resolution
//
// [Resolver.Resolve] turns a set of [Pins] (explicitly configured values)
// into a [Dirs] value in three stages:
//
//  1. OS conventions. The platform identifier is classified as MAC, WINDOWS
//     or OTHER, and each class contributes profile, cache and log locations
//     plus a default name:
//
//     | OS      | Profile                       | Cache            | Log             | Name   |
//     |---------|-------------------------------|------------------|-----------------|--------|
//     | MAC     | ~/Library/Application Support | ~/Library/Caches | ~/Library/Logs  | Jitsi  |
//     | WINDOWS | %APPDATA%                     | %LOCALAPPDATA%   | %LOCALAPPDATA%  | Jitsi  |
//     | OTHER   | ~                             | ~                | ~               | .jitsi |
//
//  2. Legacy default. If the name was not pinned and <profile>/<name> is
//     missing while ~/.jitsi exists, ~/.jitsi is used.
//
//  3. Legacy names. If the name is the branded "Jitsi" and that directory is
//     missing, ".sip-communicator" and "SIP Communicator" are tried, each
//     under the profile location first and then under the user home.
//
// When all four values are pinned, none of this runs. Either way the
// <log>/<name>/log directory is created on a best-effort basis.
//
// The resulting [Dirs] is immutable and is passed explicitly to the launch
// gate, the instance lock and the module framework.
package paths
