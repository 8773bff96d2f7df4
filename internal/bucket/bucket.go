// Package bucket is a storage stub with the upload and public-URL surface of
// a remote object store. Nothing is stored.
package bucket

import (
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// Storage hands out buckets.
type Storage struct {
	base string
	log  zerolog.Logger
}

// New returns a Storage whose public URLs start at base.
func New(base string, log zerolog.Logger) *Storage {
	return &Storage{base: strings.TrimRight(base, "/"), log: log}
}

// From returns the named bucket.
func (s *Storage) From(name string) *Bucket {
	return &Bucket{storage: s, name: name}
}

// Bucket is one named bucket.
type Bucket struct {
	storage *Storage
	name    string
}

// UploadData is the Data of an Upload result.
type UploadData struct {
	Path     string `json:"path"`
	FullPath string `json:"full_path"`
}

// PublicURLData is the Data of a GetPublicURL result.
type PublicURLData struct {
	PublicURL string `json:"publicUrl"`
}

// Upload drains r and reports where the object would live.
func (b *Bucket) Upload(path string, r io.Reader) types.Result {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return types.Fail(types.NewError(types.CodeInvalidRequest, "object path must not be empty"))
	}
	var n int64
	if r != nil {
		var err error
		n, err = io.Copy(io.Discard, r)
		if err != nil {
			return types.Fail(types.NewError(types.CodeInternal, "reading upload: %v", err))
		}
	}
	b.storage.log.Debug().Str("bucket", b.name).Str("path", path).Int64("bytes", n).Msg("upload discarded")
	return types.Result{Data: UploadData{Path: path, FullPath: b.name + "/" + path}}
}

// GetPublicURL returns the public URL for path. The object need not exist.
func (b *Bucket) GetPublicURL(path string) types.Result {
	path = strings.TrimLeft(path, "/")
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	u := b.storage.base + "/storage/v1/object/public/" + url.PathEscape(b.name) + "/" + strings.Join(segments, "/")
	return types.Result{Data: PublicURLData{PublicURL: u}}
}
