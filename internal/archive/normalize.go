// Package archive normalizes downloaded artifacts into a plain byte stream.
// Some distributors publish raw executables, others wrap the executable in a
// single-entry zip; this package hides that difference from the rest of the
// pipeline.
package archive

import (
	"compress/flate"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
)

// ErrEmptyArchive is returned for a zip archive with no entries: there is
// no binary to install.
var ErrEmptyArchive = errors.New("archive contains no entries")

const zipMediaType = "application/zip"

// Zip local file format constants.
const (
	sigLocalFile       = 0x04034b50
	sigCentralDir      = 0x02014b50
	sigEndOfCentralDir = 0x06054b50

	methodStore   = 0
	methodDeflate = 8

	// flagDataDescriptor means sizes follow the entry data instead of the
	// header, which a forward-only stream cannot honor.
	flagDataDescriptor = 0x0008
)

// Normalize turns a response stream into the byte stream of the binary
// itself. Zip responses are unwrapped to their first entry, streamed; the
// returned length is then the entry's uncompressed size. Anything else
// passes through with the declared length.
func Normalize(r io.Reader, contentType string, length int64) (io.Reader, int64, error) {
	if !isZip(contentType) {
		return r, length, nil
	}
	return firstZipEntry(r)
}

// isZip reports whether the declared content type is a zip archive,
// ignoring media type parameters.
func isZip(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.ToLower(contentType))
	}
	return mediaType == zipMediaType
}

// firstZipEntry reads the first local file entry from a zip stream and
// returns a reader over its decompressed contents. The archive is consumed
// forward-only; nothing past the first entry is read.
func firstZipEntry(r io.Reader) (io.Reader, int64, error) {
	// The signature is read separately: an empty archive starts directly
	// with the (shorter) central-directory records, so a full local header
	// may not be present at all.
	var sigBuf [4]byte
	if _, err := io.ReadFull(r, sigBuf[:]); err != nil {
		return nil, 0, fmt.Errorf("read zip signature: %w", err)
	}

	switch sig := binary.LittleEndian.Uint32(sigBuf[:]); sig {
	case sigLocalFile:
	case sigCentralDir, sigEndOfCentralDir:
		return nil, 0, ErrEmptyArchive
	default:
		return nil, 0, fmt.Errorf("not a zip archive (signature %#08x)", sig)
	}

	var header [26]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, 0, fmt.Errorf("read zip header: %w", err)
	}

	flags := binary.LittleEndian.Uint16(header[2:4])
	method := binary.LittleEndian.Uint16(header[4:6])
	compressedSize := int64(binary.LittleEndian.Uint32(header[14:18]))
	uncompressedSize := int64(binary.LittleEndian.Uint32(header[18:22]))
	nameLen := int64(binary.LittleEndian.Uint16(header[22:24]))
	extraLen := int64(binary.LittleEndian.Uint16(header[24:26]))

	if flags&flagDataDescriptor != 0 {
		return nil, 0, errors.New("zip entry defers sizes to a data descriptor; archive cannot be streamed")
	}

	// Skip the entry name and extra field to reach the data.
	if _, err := io.CopyN(io.Discard, r, nameLen+extraLen); err != nil {
		return nil, 0, fmt.Errorf("skip zip entry metadata: %w", err)
	}

	data := io.LimitReader(r, compressedSize)

	switch method {
	case methodStore:
		return data, uncompressedSize, nil
	case methodDeflate:
		return flate.NewReader(data), uncompressedSize, nil
	default:
		return nil, 0, fmt.Errorf("unsupported zip compression method %d", method)
	}
}
