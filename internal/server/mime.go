package server

import (
	"mime"
	"path/filepath"
	"strings"
)

// DefaultOverrides returns the extension overlay applied on top of the
// platform MIME table. Browsers refuse to compile a WASM module streamed
// with the wrong content type, and some platforms ship stale defaults
// for .js.
func DefaultOverrides() map[string]string {
	return map[string]string{
		".wasm": "application/wasm",
		".js":   "application/javascript",
		".mjs":  "application/javascript",
	}
}

// MIMETable maps file extensions to content types. Overlay entries win over
// the platform table. The table never mutates after construction, so it is
// safe to share across request handlers without locking.
type MIMETable struct {
	overrides map[string]string
}

// NewMIMETable builds a table from the given overlay. A nil map selects
// DefaultOverrides. Extensions are matched case-insensitively and must
// include the leading dot.
func NewMIMETable(overrides map[string]string) *MIMETable {
	if overrides == nil {
		overrides = DefaultOverrides()
	}
	t := &MIMETable{overrides: make(map[string]string, len(overrides))}
	for ext, typ := range overrides {
		t.overrides[strings.ToLower(ext)] = typ
	}
	return t
}

// Lookup resolves the content type for a request path. It returns the
// overlay entry if one exists, then the platform default, then "" for
// unknown extensions so the file server falls back to content sniffing.
func (t *MIMETable) Lookup(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if typ, ok := t.overrides[ext]; ok {
		return typ
	}
	return mime.TypeByExtension(ext)
}
