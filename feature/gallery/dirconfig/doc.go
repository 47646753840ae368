// Package dirconfig resolves the cascading per-directory configuration of the
// photo tree.
//
// Every directory may contain a small TOML override file (.gallery.config)
// adjusting sort order, visibility, password protection, or subdirectory
// roll-up for its subtree. The effective configuration of a directory is the
// gallery default overridden by each ancestor's file in root-to-leaf order.
//
// Two rules make HIDDEN special: it is sticky-on down the cascade (a child
// cannot unhide itself once an ancestor hid it), and it only controls how a
// directory is treated by its parent; opening a hidden directory directly
// still shows its photos.
//
// The package also owns catalog path normalization ("/a/b/" form) and the
// password predicate used by the HTTP layer, expressed over an opaque
// credential set so no session transport leaks into the core.
package dirconfig
