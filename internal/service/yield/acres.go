package yield

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultAcres replaces any acreage that is missing or unusable.
const DefaultAcres = 1.0

// NormalizeAcres returns acres when it is a positive finite number and
// DefaultAcres otherwise.
func NormalizeAcres(acres float64) float64 {
	if math.IsNaN(acres) || math.IsInf(acres, 0) || acres <= 0 {
		return DefaultAcres
	}
	return acres
}

// ParseAcres coerces loosely typed input (JSON numbers, strings, nil) into an
// acreage. Anything that does not parse as a positive finite number yields
// DefaultAcres; it never fails.
func ParseAcres(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return DefaultAcres
	case float64:
		return NormalizeAcres(v)
	case float32:
		return NormalizeAcres(float64(v))
	case int:
		return NormalizeAcres(float64(v))
	case int32:
		return NormalizeAcres(float64(v))
	case int64:
		return NormalizeAcres(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return DefaultAcres
		}
		return NormalizeAcres(f)
	case string:
		return parseAcresString(v)
	default:
		return parseAcresString(fmt.Sprint(v))
	}
}

func parseAcresString(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultAcres
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return DefaultAcres
	}
	return NormalizeAcres(f)
}
