package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Rating is a single numeric hazard rating. Scales are 0..3 for probability,
// impact and response ratings; alert and activation counts are unbounded.
type Rating int

// MaxRating is the upper bound applied by Normalize. It keeps every score
// computation well inside int range.
const MaxRating Rating = math.MaxUint16

// Normalize coerces any value into a safe Rating. Absent, non-numeric,
// NaN, infinite and negative values become 0. Non-integral numbers are
// truncated toward zero and numeric strings are parsed.
func Normalize(v any) Rating {
	switch x := v.(type) {
	case nil:
		return 0
	case Rating:
		return clampInt64(int64(x))
	case int:
		return clampInt64(int64(x))
	case int8:
		return clampInt64(int64(x))
	case int16:
		return clampInt64(int64(x))
	case int32:
		return clampInt64(int64(x))
	case int64:
		return clampInt64(x)
	case uint:
		return clampUint64(uint64(x))
	case uint8:
		return clampUint64(uint64(x))
	case uint16:
		return clampUint64(uint64(x))
	case uint32:
		return clampUint64(uint64(x))
	case uint64:
		return clampUint64(x)
	case float32:
		return clampFloat64(float64(x))
	case float64:
		return clampFloat64(x)
	case json.Number:
		return normalizeString(string(x))
	case string:
		return normalizeString(x)
	default:
		return 0
	}
}

// Clamp returns r limited to [0, MaxRating].
func (r Rating) Clamp() Rating {
	return clampInt64(int64(r))
}

// Int returns the rating as int
func (r Rating) Int() int {
	return int(r)
}

// UnmarshalJSON decodes any JSON value into a Rating. It never fails:
// values that are not numbers (or numeric strings) decode as 0.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		*r = 0
		return nil
	}
	*r = Normalize(v)
	return nil
}

func normalizeString(s string) Rating {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return clampFloat64(f)
}

func clampFloat64(f float64) Rating {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= float64(MaxRating) {
		return MaxRating
	}
	return Rating(math.Trunc(f))
}

func clampInt64(n int64) Rating {
	if n <= 0 {
		return 0
	}
	if n >= int64(MaxRating) {
		return MaxRating
	}
	return Rating(n)
}

func clampUint64(n uint64) Rating {
	if n >= uint64(MaxRating) {
		return MaxRating
	}
	return Rating(n)
}
