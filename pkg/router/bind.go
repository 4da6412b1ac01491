package router

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// bindQuery fills a request struct from url query values using json tags.
// Only the flat field kinds appearing in GET request models are supported.
func bindQuery(values url.Values, req any) error {
	v := reflect.ValueOf(req)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("expected a pointer to struct, got %T", req)
	}

	v = v.Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			name = strings.ToLower(t.Field(i).Name)
		}

		raw := values.Get(name)
		if raw == "" {
			continue
		}

		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)

		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer for %s: %w", name, err)
			}
			field.SetInt(n)

		case reflect.Float64:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("invalid number for %s: %w", name, err)
			}
			field.SetFloat(f)

		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %w", name, err)
			}
			field.SetBool(b)

		default:
			return fmt.Errorf("unsupported query field kind %s", field.Kind())
		}
	}

	return nil
}
