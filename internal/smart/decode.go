package smart

import (
	"errors"
	"fmt"
)

// ErrBufferSize is returned when a table is not exactly TableSize bytes
var ErrBufferSize = errors.New("smart table must be 512 bytes")

// record holds the primitive fields of one 12-byte attribute slot.
// It never outlives decoding.
type record struct {
	id      uint8
	flag    uint16
	current uint8
	worst   uint8
	raw     uint64
}

func checkTable(name string, table []byte) error {
	if len(table) != TableSize {
		return fmt.Errorf("%s table is %d bytes: %w", name, len(table), ErrBufferSize)
	}
	return nil
}

// slot returns the 12-byte slice for record index i
func slot(table []byte, i int) []byte {
	off := HeaderSize + i*RecordSize
	return table[off : off+RecordSize]
}

// decodeRecord decodes one slot. Byte 11 is reserved and ignored.
func decodeRecord(b []byte) record {
	return record{
		id:      b[0],
		flag:    uint16(b[1]) | uint16(b[2])<<8,
		current: b[3],
		worst:   b[4],
		raw:     rawValue(b[5:11]),
	}
}

// rawValue assembles the 6-byte little-endian vendor counter.
// The result always fits in 48 bits.
func rawValue(b []byte) uint64 {
	var v uint64
	for i := 0; i < 6; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// decodeRecords scans all slots in order and returns those with a
// non-zero id. The header is skipped without interpretation.
func decodeRecords(table []byte) []record {
	records := make([]record, 0, RecordCount)
	for i := 0; i < RecordCount; i++ {
		r := decodeRecord(slot(table, i))
		if r.id == 0 {
			continue
		}
		records = append(records, r)
	}
	return records
}
