package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Flatten decodes an upstream response body into a flat record list. It
// accepts a plain array of records, an array of day buckets that each carry a
// "data" array, or a single wrapper object with a "data" array.
func Flatten(payload []byte) ([]RawRecord, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("records: decode payload: %w", err)
	}
	return FlattenValue(v), nil
}

// FlattenValue applies the same shape detection to an already-decoded value.
// Array elements are judged one by one: a day bucket contributes its data
// items and any other object is a record. An id-less object without data in a
// bucket list is an empty day.
func FlattenValue(v any) []RawRecord {
	switch val := v.(type) {
	case []any:
		buckets := slices.ContainsFunc(val, func(item any) bool {
			obj, ok := asObject(item)
			return ok && isBucket(obj)
		})
		out := make([]RawRecord, 0, len(val))
		for _, item := range val {
			obj, ok := asObject(item)
			if !ok {
				continue
			}
			switch {
			case isBucket(obj):
				items, _ := obj["data"].([]any)
				out = append(out, objects(items)...)
			case buckets && !hasRecordID(obj):
			default:
				out = append(out, RawRecord(obj))
			}
		}
		return out
	case map[string]any:
		if items, ok := val["data"].([]any); ok {
			return objects(items)
		}
	}
	return nil
}

// isBucket reports whether obj wraps a data array rather than being a record
// that happens to carry one.
func isBucket(obj map[string]any) bool {
	if _, ok := obj["data"].([]any); !ok {
		return false
	}
	return !hasRecordID(obj)
}

func hasRecordID(obj map[string]any) bool {
	rec := RawRecord(obj)
	return String(rec, FieldAppointmentID) != "" || String(rec, FieldPatientID) != ""
}

func objects(items []any) []RawRecord {
	out := make([]RawRecord, 0, len(items))
	for _, item := range items {
		if obj, ok := asObject(item); ok {
			out = append(out, RawRecord(obj))
		}
	}
	return out
}

// DecodeRecord decodes a single stored record object.
func DecodeRecord(payload []byte) (RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("records: decode record: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("records: decode record: not an object")
	}
	return RawRecord(obj), nil
}
