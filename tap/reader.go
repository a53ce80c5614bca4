package tap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidArchive = errors.New("invalid tap archive")

type Block struct {
	Marker  byte
	Content []byte
}

// ReadBlocks splits an archive into blocks, verifying lengths and checksums.
func ReadBlocks(data []byte) ([]Block, error) {
	var blocks []Block
	offset := 0
	for offset < len(data) {
		if len(data)-offset < 2 {
			return nil, fmt.Errorf("%w: truncated block length at offset %d", ErrInvalidArchive, offset)
		}
		size := int(binary.LittleEndian.Uint16(data[offset:]))
		offset += 2
		if size < 2 {
			return nil, fmt.Errorf("%w: block at offset %d is too short (%d bytes)", ErrInvalidArchive, offset-2, size)
		}
		if len(data)-offset < size {
			return nil, fmt.Errorf("%w: block at offset %d declares %d bytes, %d available", ErrInvalidArchive, offset-2, size, len(data)-offset)
		}
		raw := data[offset : offset+size]
		offset += size

		marker := raw[0]
		content := raw[1 : len(raw)-1]
		if sum := Checksum(marker, content); sum != raw[len(raw)-1] {
			return nil, fmt.Errorf("%w: checksum mismatch in block at offset %d (expected %02x, got %02x)", ErrInvalidArchive, offset-size-2, sum, raw[len(raw)-1])
		}
		blocks = append(blocks, Block{
			Marker:  marker,
			Content: content,
		})
	}
	return blocks, nil
}

// Read parses an archive back into file entries. Every header block must be
// followed by its data block.
func Read(data []byte) ([]*FileEntry, error) {
	blocks, err := ReadBlocks(data)
	if err != nil {
		return nil, err
	}

	var entries []*FileEntry
	for i := 0; i < len(blocks); i++ {
		header := blocks[i]
		if header.Marker != MarkerHeader || len(header.Content) != HeaderSize {
			return nil, fmt.Errorf("%w: block %d is not a header", ErrInvalidArchive, i)
		}
		if i+1 >= len(blocks) || blocks[i+1].Marker != MarkerData {
			return nil, fmt.Errorf("%w: header block %d has no data block", ErrInvalidArchive, i)
		}
		data := blocks[i+1]
		i++

		h := header.Content
		length := int(binary.LittleEndian.Uint16(h[11:]))
		if length != len(data.Content) {
			return nil, fmt.Errorf("%w: header block %d declares %d bytes, data block has %d", ErrInvalidArchive, i-1, length, len(data.Content))
		}
		param1 := binary.LittleEndian.Uint16(h[13:])
		param2 := binary.LittleEndian.Uint16(h[15:])

		entry := NewFileEntry(
			strings.TrimRight(string(h[1:1+MaxNameLength]), " "),
			FileType(h[0]),
			data.Content,
		)
		switch entry.Type {
		case Program:
			entry.Params = ProgramParams{
				AutostartLine: int(param1),
				VariableArea:  int(param2),
			}
		case Code:
			entry.Params = CodeParams{
				Address:  int(param1),
				Constant: int(param2),
			}
		default:
			entry.Params = GenericParams{
				Param1: param1,
				Param2: param2,
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
