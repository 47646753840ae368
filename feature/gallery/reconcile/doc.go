// Package reconcile keeps the photo catalog in sync with the filesystem.
//
// Reconciliation is request driven: every gallery view triggers a full
// synchronous pass over the requested subtree. The pass diffs filenames on
// disk against the catalog, pairs vanished and appeared files by content
// digest to detect moves and renames without losing uids, commits the
// difference as one transaction and sweeps derived renditions that no longer
// belong to any record. Passes over the same root are serialized so two
// concurrent requests cannot double-insert a file.
package reconcile
