// Package uid generates the stable identifiers assigned to photos.
//
// A UID is a short lowercase alphanumeric string, deliberately biased toward
// digits so identifiers read as mostly numeric. It is assigned once when a
// photo first enters the catalog and never changes afterwards, even when the
// file is renamed or moved. Knowing a UID grants direct access to the photo
// and its derived variants, so UIDs are drawn from crypto/rand.
package uid
