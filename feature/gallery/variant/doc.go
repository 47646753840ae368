// Package variant generates and caches resized photo renditions (thumbnail
// and large view). The cache directory mirrors the photos directory; entries
// live until reconciliation removes the photo they belong to. There is no
// size bound or eviction.
package variant
