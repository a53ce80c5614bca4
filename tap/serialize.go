package tap

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	MarkerHeader byte = 0x00
	MarkerData   byte = 0xFF

	HeaderSize = 17
)

var ErrBlockTooLarge = errors.New("block too large")

// SerializeHeader lays out the 17 byte header record of an entry.
func SerializeHeader(e *FileEntry) []byte {
	header := make([]byte, 0, HeaderSize)
	header = append(header, byte(e.Type))

	name := []byte(e.Name)
	if len(name) > MaxNameLength {
		name = name[:MaxNameLength]
	}
	header = append(header, name...)
	for range MaxNameLength - len(name) {
		header = append(header, ' ')
	}

	param1, param2 := e.words()
	header = binary.LittleEndian.AppendUint16(header, uint16(len(e.Bytes)))
	header = binary.LittleEndian.AppendUint16(header, param1)
	header = binary.LittleEndian.AppendUint16(header, param2)
	return header
}

func Checksum(marker byte, content []byte) byte {
	sum := marker
	for _, b := range content {
		sum ^= b
	}
	return sum
}

// SerializeBlock frames content as a tape block: length, marker, content and
// checksum.
func SerializeBlock(marker byte, content []byte) ([]byte, error) {
	if len(content) > MaxBlockContent {
		return nil, fmt.Errorf("%w: %d bytes", ErrBlockTooLarge, len(content))
	}
	size := len(content) + 2
	out := make([]byte, 0, size+2)
	out = binary.LittleEndian.AppendUint16(out, uint16(size))
	out = append(out, marker)
	out = append(out, content...)
	out = append(out, Checksum(marker, content))
	return out, nil
}

// SerializeEntry returns the header block followed by the data block.
func SerializeEntry(e *FileEntry) ([]byte, error) {
	header, err := SerializeBlock(MarkerHeader, SerializeHeader(e))
	if err != nil {
		return nil, err
	}
	data, err := SerializeBlock(MarkerData, e.Bytes)
	if err != nil {
		return nil, err
	}
	return append(header, data...), nil
}
