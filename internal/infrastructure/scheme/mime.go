package scheme

import (
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

const fallbackContentType = "application/octet-stream"

// contentType sniffs data by magic numbers. Results too generic to be
// useful (plain text, octet-stream) defer to the file extension.
func contentType(data []byte, name string) string {
	sniffed := mimetype.Detect(data)
	if !sniffed.Is("text/plain") && !sniffed.Is(fallbackContentType) {
		return sniffed.String()
	}
	if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
		return byExt
	}
	if sniffed.Is("text/plain") {
		return sniffed.String()
	}
	return fallbackContentType
}
