package assets

import (
	"mime"
	"path"
	"strings"
)

// Serving types are resolved from the file extension only; the gateway never
// sniffs content. Registrations below cover types the platform mime table
// does not reliably provide.
func init() {
	for ext, typ := range map[string]string{
		".css":   "text/css; charset=utf-8",
		".js":    "application/javascript; charset=utf-8",
		".svg":   "image/svg+xml",
		".webp":  "image/webp",
		".ico":   "image/x-icon",
		".woff":  "font/woff",
		".woff2": "font/woff2",
		".ttf":   "font/ttf",
		".eot":   "application/vnd.ms-fontobject",
	} {
		if mime.TypeByExtension(ext) == "" {
			_ = mime.AddExtensionType(ext, typ)
		}
	}
}

// contentTypeFor maps a key's extension to a Content-Type, defaulting to
// application/octet-stream.
func contentTypeFor(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if typ := mime.TypeByExtension(ext); typ != "" {
		return typ
	}
	return "application/octet-stream"
}
