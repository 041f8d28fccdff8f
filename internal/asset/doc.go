// Package asset downloads part images to local storage.
//
// Fetch streams the response into a temporary file next to the destination
// and renames it into place once the whole body arrived with status 200 or
// 201. A failed download never leaves a partial file at the destination.
//
// Destination names are derived from the part id, so two parts never share
// a file even when their names slug to the same text.
package asset
