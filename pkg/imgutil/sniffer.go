package imgutil

import "errors"

// Container identifies the on-disk container of a file, independent of its
// extension. RAW formats from different vendors share a small set of
// containers: CR2/NEF/ARW/DNG are TIFF structures, CR3 is ISO BMFF.
type Container int

const (
	ContainerUnknown Container = iota
	ContainerJPEG
	ContainerTIFF
)

func (c Container) String() string {
	switch c {
	case ContainerJPEG:
		return "jpeg"
	case ContainerTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

var (
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
)

// DetectHeader inspects the first bytes of a file for known signatures.
func DetectHeader(header []byte) (Container, error) {
	if len(header) < 4 {
		return ContainerUnknown, errors.New("header too short")
	}

	if hasPrefix(header, jpegSig) {
		return ContainerJPEG, nil
	}
	if hasPrefix(header, tiffSigLE) || hasPrefix(header, tiffSigBE) {
		return ContainerTIFF, nil
	}

	return ContainerUnknown, nil
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
