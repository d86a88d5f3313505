package scheme

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/dcshell/internal/domain/entity"
)

// segments returns the still-escaped path segments of req. Hosts that put
// the first path segment into the URL host, and hosts that use the
// http://<scheme>.localhost form, both yield the same list.
func segments(req *Request) []string {
	var segs []string
	host := req.URI.Hostname()
	if host != "" && host != "localhost" && host != req.Scheme+".localhost" {
		segs = append(segs, host)
	}
	for _, s := range strings.Split(req.URI.EscapedPath(), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// decodeName unescapes a single file or folder name and rejects anything
// that could address a different directory.
func decodeName(escaped string) (string, error) {
	name, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrInvalidPath, err)
	}
	if name == "" || name == "." || strings.Contains(name, "..") ||
		strings.ContainsAny(name, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", entity.ErrInvalidPath, name)
	}
	return name, nil
}
