package jserror

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Keys of a collector entry.
const (
	KeyMessage = "errorMessage"
	KeySource  = "sourceName"
	KeyLine    = "lineNumber"
)

// FromMap decodes one collector entry. Message and source must be strings;
// the line number may be any integer, an integral float (JSON numbers), a
// json.Number or a decimal string.
func FromMap(raw map[string]interface{}) (Record, error) {
	return decodeEntry(raw, -1)
}

func decodeEntry(raw map[string]interface{}, index int) (Record, error) {
	message, err := stringField(raw, KeyMessage, index)
	if err != nil {
		return Record{}, err
	}
	source, err := stringField(raw, KeySource, index)
	if err != nil {
		return Record{}, err
	}
	line, err := lineField(raw, index)
	if err != nil {
		return Record{}, err
	}
	return New(message, source, line), nil
}

func stringField(raw map[string]interface{}, key string, index int) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", &ParseError{Index: index, Field: key, Err: ErrMissingField}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ParseError{
			Index: index,
			Field: key,
			Err:   fmt.Errorf("%w: want string, got %T", ErrInvalidField, v),
		}
	}
	return s, nil
}

func lineField(raw map[string]interface{}, index int) (int, error) {
	v, ok := raw[KeyLine]
	if !ok || v == nil {
		return 0, &ParseError{Index: index, Field: KeyLine, Err: ErrMissingField}
	}

	line, err := toInt(v)
	if err != nil {
		return 0, &ParseError{
			Index: index,
			Field: KeyLine,
			Err:   fmt.Errorf("%w: %v", ErrInvalidField, err),
		}
	}
	return line, nil
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return intFromInt64(n)
	case uint:
		return intFromUint64(uint64(n))
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return intFromUint64(uint64(n))
	case uint64:
		return intFromUint64(n)
	case float32:
		return intFromFloat(float64(n))
	case float64:
		return intFromFloat(n)
	case json.Number:
		return parseLine(n.String())
	case string:
		return parseLine(n)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func parseLine(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}

func intFromInt64(n int64) (int, error) {
	if n > math.MaxInt || n < math.MinInt {
		return 0, fmt.Errorf("out of range: %d", n)
	}
	return int(n), nil
}

func intFromUint64(n uint64) (int, error) {
	if n > math.MaxInt {
		return 0, fmt.Errorf("out of range: %d", n)
	}
	return int(n), nil
}

func intFromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	// -MinInt is exact as a float64; MaxInt is not.
	if f >= -float64(math.MinInt) || f < float64(math.MinInt) {
		return 0, fmt.Errorf("out of range: %v", f)
	}
	return int(f), nil
}
