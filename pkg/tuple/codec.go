// Package tuple implements the polymorphic row-access model (spec §3
// Tuple): RowTuple, JoinedTuple, ProjectTuple, ValueListTuple and
// EmptyTuple all expose uniform cell access regardless of their backing
// source.
package tuple

import (
	"encoding/binary"
	"fmt"
	"math"

	"relcore/pkg/catalog"
	"relcore/pkg/types"
)

// IsFieldNull reports whether the null bitmap marks fieldIndex as null.
func IsFieldNull(bitmap []byte, fieldIndex int) bool {
	byteIdx := fieldIndex / 8
	bitIdx := uint(fieldIndex % 8)
	if byteIdx >= len(bitmap) {
		return false
	}
	return bitmap[byteIdx]&(1<<bitIdx) != 0
}

// SetFieldNull sets or clears the null bit for fieldIndex in place.
func SetFieldNull(bitmap []byte, fieldIndex int, isNull bool) {
	byteIdx := fieldIndex / 8
	bitIdx := uint(fieldIndex % 8)
	if byteIdx >= len(bitmap) {
		return
	}
	if isNull {
		bitmap[byteIdx] |= 1 << bitIdx
	} else {
		bitmap[byteIdx] &^= 1 << bitIdx
	}
}

// DecodeField reads the value at meta's declared offset out of a full
// record buffer (bitmap included), honoring the null bit first.
func DecodeField(record []byte, meta *catalog.FieldMeta, fieldIndex int) (types.Value, error) {
	bitmapLen := (fieldIndex/8 + 1)
	if bitmapLen > len(record) {
		bitmapLen = len(record)
	}
	if IsFieldNull(record[:max(bitmapLen, 1)], fieldIndex) {
		return types.Null(), nil
	}

	start := meta.Offset
	if start+meta.Length > len(record) {
		return types.Value{}, fmt.Errorf("field %s out of bounds in record of length %d", meta.Name, len(record))
	}
	buf := record[start : start+meta.Length]

	switch meta.Type {
	case types.KindInt:
		return types.NewInt(int32(binary.BigEndian.Uint32(buf))), nil
	case types.KindFloat:
		bits := binary.BigEndian.Uint32(buf)
		return types.NewFloat(math.Float32frombits(bits)), nil
	case types.KindDate:
		return types.NewDate(int32(binary.BigEndian.Uint32(buf))), nil
	case types.KindBoolean:
		return types.NewBool(buf[0] != 0), nil
	case types.KindChars:
		n := binary.BigEndian.Uint32(buf[:4])
		if int(n) > meta.Length-4 {
			n = uint32(meta.Length - 4)
		}
		return types.NewChars(string(buf[4 : 4+n])), nil
	default:
		return types.Value{}, fmt.Errorf("unsupported field type %s", meta.Type)
	}
}

// EncodeField writes v into record at meta's declared offset and updates
// the null bit for fieldIndex. Chars values are copied truncated to
// min(fieldLen-4, len(value)); truncation is silent, matching the
// Update operator's field-write contract.
func EncodeField(record []byte, meta *catalog.FieldMeta, fieldIndex int, v types.Value) error {
	bitmapLen := (fieldIndex/8 + 1)
	if bitmapLen > len(record) {
		bitmapLen = len(record)
	}
	bitmap := record[:max(bitmapLen, 1)]

	if v.IsNull() {
		SetFieldNull(bitmap, fieldIndex, true)
		return nil
	}
	SetFieldNull(bitmap, fieldIndex, false)

	start := meta.Offset
	if start+meta.Length > len(record) {
		return fmt.Errorf("field %s out of bounds in record of length %d", meta.Name, len(record))
	}
	buf := record[start : start+meta.Length]

	switch meta.Type {
	case types.KindInt:
		binary.BigEndian.PutUint32(buf, uint32(v.AsInt()))
	case types.KindFloat:
		binary.BigEndian.PutUint32(buf, math.Float32bits(v.AsFloat()))
	case types.KindDate:
		binary.BigEndian.PutUint32(buf, uint32(v.AsInt()))
	case types.KindBoolean:
		if v.AsBool() {
			buf[0] = 1
		} else {
			buf[0] = 0
		}
	case types.KindChars:
		s := v.AsChars()
		avail := meta.Length - 4
		n := len(s)
		if n > avail {
			n = avail
		}
		for i := range buf {
			buf[i] = 0
		}
		binary.BigEndian.PutUint32(buf[:4], uint32(n))
		copy(buf[4:4+n], s[:n])
	default:
		return fmt.Errorf("unsupported field type %s", meta.Type)
	}
	return nil
}
