// Package typecast bridges expression.Value and the on-disk column byte
// layout across the five declared column types: int, float, string,
// bool, and date.
package typecast

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/expression"
)

var (
	ErrIncompatibleType = errors.New("incompatible data type")
	ErrNotCoercible     = errors.New("value cannot be coerced to BOOL")
	ErrBadColumnBytes   = errors.New("malformed column bytes")
)

// ColumnToTerm maps a column's declared storage type to the expression
// term type its decoded values carry.
func ColumnToTerm(colType catalog.ColumnType) expression.TermType {
	switch colType {
	case catalog.Int:
		return expression.TermInt
	case catalog.Float:
		return expression.TermFloat
	case catalog.String:
		return expression.TermString
	case catalog.Date:
		return expression.TermDate
	case catalog.Bool:
		return expression.TermBool
	default:
		return expression.TermNone
	}
}

// TypeCompatible reports whether v may be stored into a column of
// colType (allowing int-into-float widening, as the engine's arithmetic
// does).
func TypeCompatible(colType catalog.ColumnType, v expression.Value) bool {
	if v.Type == expression.TermNull {
		return true
	}
	switch colType {
	case catalog.Int:
		return v.Type == expression.TermInt
	case catalog.Float:
		return v.Type == expression.TermFloat || v.Type == expression.TermInt
	case catalog.String:
		return v.Type == expression.TermString
	case catalog.Date:
		return v.Type == expression.TermDate
	case catalog.Bool:
		return v.Type == expression.TermBool
	default:
		return false
	}
}

// ExprToDB serializes v into the on-disk byte layout for termType.
// NULL is serialized as a zero-length slice. An empty string serializes
// the same way, so the two are not distinguished on disk: DBFromBytes
// decodes both as NULL.
func ExprToDB(v expression.Value, termType expression.TermType) ([]byte, error) {
	if v.Type == expression.TermNull {
		return nil, nil
	}

	switch termType {
	case expression.TermInt:
		iv := v.I
		if v.Type == expression.TermFloat {
			iv = int32(v.F)
		} else if v.Type != expression.TermInt {
			return nil, errors.Wrapf(ErrIncompatibleType, "want INT, got %v", v.Type)
		}
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(iv))
		return buf, nil
	case expression.TermFloat:
		var fv float32
		switch v.Type {
		case expression.TermFloat:
			fv = v.F
		case expression.TermInt:
			fv = float32(v.I)
		default:
			return nil, errors.Wrapf(ErrIncompatibleType, "want FLOAT, got %v", v.Type)
		}
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, math.Float32bits(fv))
		return buf, nil
	case expression.TermString:
		if v.Type != expression.TermString {
			return nil, errors.Wrapf(ErrIncompatibleType, "want STRING, got %v", v.Type)
		}
		return []byte(v.S), nil
	case expression.TermBool:
		if v.Type != expression.TermBool {
			return nil, errors.Wrapf(ErrIncompatibleType, "want BOOL, got %v", v.Type)
		}
		if v.B {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case expression.TermDate:
		if v.Type != expression.TermDate {
			return nil, errors.Wrapf(ErrIncompatibleType, "want DATE, got %v", v.Type)
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(v.D))
		return buf, nil
	default:
		return nil, errors.Newf("unsupported term type %v", termType)
	}
}

// DBFromBytes decodes raw column bytes back into a tagged Value given the
// column's declared type. A zero-length slice decodes to NULL.
func DBFromBytes(data []byte, colType catalog.ColumnType) (expression.Value, error) {
	if len(data) == 0 {
		return expression.NullValue(), nil
	}

	switch colType {
	case catalog.Int:
		if len(data) != 4 {
			return expression.Value{}, errors.Wrapf(ErrBadColumnBytes, "INT needs 4 bytes, got %d", len(data))
		}
		return expression.IntValue(int32(binary.BigEndian.Uint32(data))), nil
	case catalog.Float:
		if len(data) != 4 {
			return expression.Value{}, errors.Wrapf(ErrBadColumnBytes, "FLOAT needs 4 bytes, got %d", len(data))
		}
		return expression.FloatValue(math.Float32frombits(binary.BigEndian.Uint32(data))), nil
	case catalog.String:
		return expression.StringValue(string(data)), nil
	case catalog.Bool:
		if len(data) != 1 {
			return expression.Value{}, errors.Wrapf(ErrBadColumnBytes, "BOOL needs 1 byte, got %d", len(data))
		}
		return expression.BoolValue(data[0] != 0), nil
	case catalog.Date:
		if len(data) != 8 {
			return expression.Value{}, errors.Wrapf(ErrBadColumnBytes, "DATE needs 8 bytes, got %d", len(data))
		}
		return expression.DateValue(int64(binary.BigEndian.Uint64(data))), nil
	default:
		return expression.Value{}, errors.Newf("unsupported column type %v", colType)
	}
}

// ExprToBool coerces v to a plain bool, returning an error on anything
// but a BOOL value.
func ExprToBool(v expression.Value) (bool, error) {
	if v.Type != expression.TermBool {
		return false, errors.Wrapf(ErrNotCoercible, "got %v", v.Type)
	}
	return v.B, nil
}
