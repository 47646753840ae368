// Package gallery implements the photo gallery feature.
//
// The filesystem is the sole source of truth: every gallery view triggers a
// synchronous reconciliation of the requested directory subtree against the
// photo catalog, so the listing always reflects what is on disk. Photos are
// addressed by stable random uids that survive renames and moves, detected by
// content digest during reconciliation.
//
// # Components
//
//   - dirconfig: per-directory override files cascaded into an effective
//     configuration, including hidden flags and access passwords.
//   - catalog: the persisted photo table and its batched write operations.
//   - reconcile: the filesystem/catalog diffing engine.
//   - metadata: lazy extraction of dimensions, average color and EXIF fields.
//   - variant: the thumbnail and large-view rendition cache.
//   - Service / Handler / Loader: the usual feature wiring.
//
// # HTTP Endpoints
//
//   - GET /:path : reconcile and list the photos visible at a path.
//   - GET /:path?nav : navigation data for a path.
//   - GET /.photo/:uid : a photo's original file.
//   - GET /.photo/:uid/thumbnail, /.photo/:uid/large : cached renditions.
//   - GET /.photo/:uid/download : attachment download named by uid.
package gallery
