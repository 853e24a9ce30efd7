package filestore

import "io"

// Store persists uploaded images and returns a publicly reachable URL for
// each stored object.
type Store interface {
	Upload(key, contentType string, body io.Reader) (url string, err error)
}
