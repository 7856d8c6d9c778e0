package adapters

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stores hand back loosely typed values. The helpers below accept every
// representation the drivers produce for a field and reject the rest.

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case primitive.ObjectID:
		return t.Hex()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// asTime treats strings without a zone as UTC.
func asTime(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case primitive.DateTime:
		ts := t.Time()
		return &ts, nil
	case time.Time:
		if t.IsZero() {
			return nil, nil
		}
		return &t, nil
	case *time.Time:
		return t, nil
	case string, []byte:
		s := strings.TrimSpace(asString(t))
		if s == "" {
			return nil, nil
		}
		for _, layout := range timeLayouts {
			if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return &ts, nil
			}
		}
		return nil, fmt.Errorf("unrecognized timestamp %q", s)
	default:
		return nil, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func asInt64(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint32:
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, fmt.Errorf("count %d overflows int64", t)
		}
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string, []byte:
		n, err := strconv.ParseInt(strings.TrimSpace(asString(t)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid count: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported count type %T", v)
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	default:
		return false
	}
}

func asStrings(v any) []string {
	var items []any
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case bson.A:
		items = t
	case []any:
		items = t
	default:
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
