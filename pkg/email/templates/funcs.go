package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

var errDivideByZero = errors.New("divide by zero")

func funcMap() template.FuncMap {
	return template.FuncMap{
		"divide":  divide,
		"toFixed": toFixed,
		"upper":   upper,
	}
}

func divide(l, r any) (float64, error) {
	a, err := toFloat(l)
	if err != nil {
		return 0, err
	}
	b, err := toFloat(r)
	if err != nil {
		return 0, err
	}
	if b == 0 {
		return 0, errDivideByZero
	}
	return a / b, nil
}

func toFixed(num any, digits int) (string, error) {
	f, err := toFloat(num)
	if err != nil {
		return "", err
	}
	if digits < 0 {
		digits = 2
	}
	return strconv.FormatFloat(f, 'f', digits, 64), nil
}

func upper(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.ToUpper(s)
}

// toFloat accepts the numeric shapes produced by encoding/json and Go callers.
// A missing value counts as zero.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}
