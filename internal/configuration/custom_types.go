package configuration

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Band is an inclusive [Low, High] range
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains returns true if value lies within the band, including its edges
func (b Band) Contains(value float64) bool {
	return value >= b.Low && value <= b.High
}

func (b Band) String() string {
	return fmt.Sprintf("[%g, %g]", b.Low, b.High)
}

// BandHookFunc returns a mapstructure decode hook that accepts a Band as
// a two element list ([200, 500]) or as a string ("200-500").
// Maps ({low: 200, high: 500}) are decoded by mapstructure itself.
func BandHookFunc() mapstructure.DecodeHookFuncType {
	bandType := reflect.TypeOf(Band{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != bandType {
			return data, nil
		}

		switch f.Kind() {
		case reflect.String:
			return parseBandString(data.(string))
		case reflect.Slice, reflect.Array:
			v := reflect.ValueOf(data)
			if v.Len() != 2 {
				return nil, fmt.Errorf("band must have exactly two values, got %d", v.Len())
			}
			low, err := toFloat(v.Index(0).Interface())
			if err != nil {
				return nil, err
			}
			high, err := toFloat(v.Index(1).Interface())
			if err != nil {
				return nil, err
			}
			return Band{Low: low, High: high}, nil
		default:
			return data, nil
		}
	}
}

func parseBandString(text string) (Band, error) {
	parts := strings.Split(strings.TrimSpace(text), "-")
	if len(parts) != 2 {
		return Band{}, fmt.Errorf("invalid band '%s', expected format: low-high", text)
	}
	low, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Band{}, fmt.Errorf("invalid band '%s': %w", text, err)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Band{}, fmt.Errorf("invalid band '%s': %w", text, err)
	}
	return Band{Low: low, High: high}, nil
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("unsupported band value type %T", value)
	}
}
