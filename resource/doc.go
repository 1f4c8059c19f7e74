// Package resource bounds the resources used by concurrent map trainings.
//
// A Controller limits how many trainings run at once, how much memory their
// grid arenas may hold in total, and how fast snapshots are written to or
// read from a blob store. A nil *Controller is valid and imposes no limits.
package resource
