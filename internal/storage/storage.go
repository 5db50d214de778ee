// Package storage holds uploaded profile images. A BlobStore writes objects
// under caller-chosen names and knows the public URL each name is served at.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var ErrBlobNotFound = errors.New("blob not found")

var blobExtPattern = regexp.MustCompile(`^[a-z0-9]{1,8}$`)

type BlobStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) error
	// Delete removes the named blob and returns ErrBlobNotFound when it is absent.
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// NewBlobName returns a unique object name that keeps the upload's extension,
// falling back to png when the filename has no short alphanumeric one.
func NewBlobName(filename string) string {
	ext := "png"
	if i := strings.LastIndex(filename, "."); i >= 0 {
		if candidate := strings.ToLower(filename[i+1:]); blobExtPattern.MatchString(candidate) {
			ext = candidate
		}
	}
	return uuid.New().String() + "." + ext
}

// NameFromURL recovers the object name from a URL produced by URL.
func NameFromURL(url string) string {
	return path.Base(strings.TrimRight(url, "/"))
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}
