// Package list handles exhaustive prefix listings.
// It follows continuation tokens across store pages until the listing is
// complete or the page fetch bound is reached.
package list
