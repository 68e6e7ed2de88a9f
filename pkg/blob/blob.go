package blob

import "mime/multipart"

// Store is the boundary to the external media storage. Upload returns the
// public URL of the stored object plus the object key so callers can delete
// it later. Implementations must not block indefinitely.
type Store interface {
	Upload(file *multipart.FileHeader) (url string, key string, err error)
	Delete(key string) error
}
