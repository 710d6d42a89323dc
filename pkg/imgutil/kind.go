package imgutil

import (
	"path/filepath"
	"strings"
)

// Kind identifies how a source file is decoded.
type Kind int

const (
	KindUnknown Kind = iota
	KindStandard
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

var standardExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

var rawExts = map[string]bool{
	".raw": true,
	".cr2": true,
	".cr3": true,
	".nef": true,
	".arw": true,
	".dng": true,
}

// KindByExt classifies a file by its extension (case-insensitive).
// Files that map to KindUnknown are not processable.
func KindByExt(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case standardExts[ext]:
		return KindStandard
	case rawExts[ext]:
		return KindRaw
	default:
		return KindUnknown
	}
}
