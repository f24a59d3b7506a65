// Package filetype restricts listings to keys of given MIME types.
package filetype

import (
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/FPI-TW/report-sub000/errors"
)

// Filter matches keys by extension against a set of MIME types.
// The zero value and a nil Filter match every key.
type Filter struct {
	extensions map[string]struct{}
}

// NewFilter builds a filter from MIME types such as "application/pdf" or "audio/mpeg".
// It returns ErrInvalidInput for a type mimetype does not know.
func NewFilter(mimeTypes []string) (*Filter, error) {
	if len(mimeTypes) == 0 {
		return nil, nil
	}

	f := &Filter{extensions: make(map[string]struct{}, len(mimeTypes))}
	for _, m := range mimeTypes {
		mt := mimetype.Lookup(strings.ToLower(strings.TrimSpace(m)))
		if mt == nil || mt.Extension() == "" {
			return nil, errors.NewError("fileType", errors.ErrInvalidInput, fmt.Errorf("unknown MIME type %q", m))
		}
		f.extensions[mt.Extension()] = struct{}{}
	}
	return f, nil
}

// Match reports whether key has one of the filter's extensions.
func (f *Filter) Match(key string) bool {
	if f == nil || len(f.extensions) == 0 {
		return true
	}
	_, ok := f.extensions[strings.ToLower(path.Ext(key))]
	return ok
}
