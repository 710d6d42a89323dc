package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	exif "github.com/dsoprea/go-exif/v3"

	"mpix/pkg/imgutil"
)

// TIFF tag IDs that can point at an embedded JPEG preview. TIFF-based RAW
// files (CR2, NEF, ARW, DNG) store one or more renders of the sensor data as
// plain JPEG streams referenced from their IFDs.
const (
	tagStripOffsets      = 0x0111
	tagStripByteCounts   = 0x0117
	tagJPEGInterchange   = 0x0201
	tagJPEGInterchangeSz = 0x0202
)

// maxPreviewCandidates bounds the marker scan on pathological input.
const maxPreviewCandidates = 32

var errNoPreview = errors.New("no embedded JPEG preview found")

// DecodeRaw decodes a camera RAW file by extracting the largest embedded
// JPEG render. A full demosaicing pipeline is out of reach for pure Go; every
// mainstream RAW format carries at least one full-size JPEG, which is what
// gets resized. TIFF containers are walked via their IFD tables; anything
// else falls back to a JPEG marker scan.
func DecodeRaw(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var candidates [][]byte
	if container, err := imgutil.DetectHeader(data); err == nil && container == imgutil.ContainerTIFF {
		candidates = tiffPreviews(data)
	}
	if len(candidates) == 0 {
		candidates = scanJPEGStreams(data)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("decode %s: %w", path, errNoPreview)
	}

	img, err := bestJPEG(candidates)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// tiffPreviews collects preview byte ranges referenced from the file's IFDs.
// Offsets in TIFF-based RAW files are relative to the TIFF header, which sits
// at the start of the file.
func tiffPreviews(data []byte) [][]byte {
	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(bytes.NewReader(data), nil, true)
	if err != nil {
		return nil
	}

	type span struct {
		offset, length uint32
		hasOff, hasLen bool
	}
	interchange := map[string]*span{}
	strips := map[string]*span{}

	get := func(m map[string]*span, ifdPath string) *span {
		s, ok := m[ifdPath]
		if !ok {
			s = &span{}
			m[ifdPath] = s
		}
		return s
	}

	for _, tag := range tags {
		v, ok := firstUint32(tag.Value)
		if !ok {
			continue
		}
		switch tag.TagId {
		case tagJPEGInterchange:
			s := get(interchange, tag.IfdPath)
			s.offset, s.hasOff = v, true
		case tagJPEGInterchangeSz:
			s := get(interchange, tag.IfdPath)
			s.length, s.hasLen = v, true
		case tagStripOffsets:
			s := get(strips, tag.IfdPath)
			s.offset, s.hasOff = v, true
		case tagStripByteCounts:
			s := get(strips, tag.IfdPath)
			s.length, s.hasLen = v, true
		}
	}

	var candidates [][]byte
	for _, m := range []map[string]*span{interchange, strips} {
		for _, s := range m {
			if !s.hasOff || !s.hasLen || s.length == 0 {
				continue
			}
			end := uint64(s.offset) + uint64(s.length)
			if end > uint64(len(data)) {
				continue
			}
			chunk := data[s.offset:end]
			if container, err := imgutil.DetectHeader(chunk); err != nil || container != imgutil.ContainerJPEG {
				continue
			}
			candidates = append(candidates, chunk)
		}
	}
	return candidates
}

// firstUint32 extracts the first value of a LONG or SHORT tag. Multi-strip
// images are not preview candidates, so only single-value tags are used.
func firstUint32(v interface{}) (uint32, bool) {
	switch t := v.(type) {
	case []uint32:
		if len(t) == 1 {
			return t[0], true
		}
	case []uint16:
		if len(t) == 1 {
			return uint32(t[0]), true
		}
	case uint32:
		return t, true
	case uint16:
		return uint32(t), true
	}
	return 0, false
}

// scanJPEGStreams finds SOI markers and returns the trailing slice from each.
// jpeg.Decode stops at EOI, so trailing container bytes are harmless. Used
// for non-TIFF containers (CR3, generic .raw) and as a fallback when the IFD
// walk yields nothing.
func scanJPEGStreams(data []byte) [][]byte {
	var candidates [][]byte
	for i := 0; i+2 < len(data) && len(candidates) < maxPreviewCandidates; i++ {
		if data[i] == 0xff && data[i+1] == 0xd8 && data[i+2] == 0xff {
			candidates = append(candidates, data[i:])
			i += 2
		}
	}
	return candidates
}

// bestJPEG decodes the candidate with the largest pixel count. Candidates
// that fail even a header parse are skipped.
func bestJPEG(candidates [][]byte) (image.Image, error) {
	bestIdx := -1
	bestPixels := -1
	for i, c := range candidates {
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(c))
		if err != nil {
			continue
		}
		pixels := cfg.Width * cfg.Height
		if pixels > bestPixels {
			bestIdx, bestPixels = i, pixels
		}
	}
	if bestIdx < 0 {
		return nil, errNoPreview
	}
	return jpeg.Decode(bytes.NewReader(candidates[bestIdx]))
}
