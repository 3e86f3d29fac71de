// Package formdata holds the values collected by a wizard as an immutable
// snapshot. Every mutation (Set, Merge, Clear, Reset) returns a new Data and
// leaves the receiver untouched, so a single owner can hand snapshots to
// renderers without copying or locking.
package formdata
