// Package snapshot obtains text snapshots of company pages through an
// opaque fetching capability, with bounded retries on top.
package snapshot

import "context"

// Snapshotter opens a URL and returns a text representation of the page.
// Implementations own a browser-like resource and must not be driven
// concurrently.
type Snapshotter interface {
	Snapshot(ctx context.Context, url string) (string, error)
	Close() error
}
