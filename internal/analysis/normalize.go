package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/KaramelBytes/journal-metrics/internal/table"
)

// sentinels are the lower-cased cell texts that mean "no data".
var sentinels = map[string]struct{}{
	"n/a": {},
	"na":  {},
	"-":   {},
	"–":   {},
	"":    {},
}

var rxNonNumeric = regexp.MustCompile(`[^0-9.]`)

// Normalize reduces a cell to a finite number. ok is false for missing, sentinel and
// unparseable values.
func Normalize(c table.Cell) (float64, bool) {
	switch c.Kind {
	case table.Number:
		return finite(c.Num)
	case table.Text:
		return NormalizeString(c.Text)
	default:
		return 0, false
	}
}

// NormalizeString parses locale-formatted metric text such as "15,6%" or "1.234".
// Commas become decimal points and everything but digits and points is dropped.
func NormalizeString(s string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	if _, ok := sentinels[v]; ok {
		return 0, false
	}
	v = strings.ReplaceAll(v, ",", ".")
	v = rxNonNumeric.ReplaceAllString(v, "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

// NormalizeValue accepts dynamically typed input. Numbers pass through exactly,
// strings and cells are normalized, anything else yields no value.
func NormalizeValue(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case table.Cell:
		return Normalize(x)
	case string:
		return NormalizeString(x)
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
