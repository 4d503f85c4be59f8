package constants

import "strings"

// Format is the coarse media kind of an artifact.
type Format string

const (
	PDF   Format = "PDF"
	IMAGE Format = "IMAGE"
)

// AllowedExtensions holds the file extensions picked up by directory discovery.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to its Format. Returns "" for
// unsupported extensions.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "png", "jpg", "jpeg":
		return IMAGE
	default:
		return ""
	}
}
