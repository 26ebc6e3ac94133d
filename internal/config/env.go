package config

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// envBinder overrides `env` tagged fields from the environment. Every bad
// variable is reported, not just the first.
type envBinder struct {
	lookup func(key string) (string, bool)
	errs   []error
}

func bindEnv(cfg *Config) error {
	b := &envBinder{lookup: os.LookupEnv}
	b.walk(reflect.ValueOf(cfg).Elem())
	return errors.Join(b.errs...)
}

func (b *envBinder) walk(val reflect.Value) {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field, spec := val.Field(i), typ.Field(i)

		key := spec.Tag.Get("env")
		if key == "" {
			if field.Kind() == reflect.Struct {
				b.walk(field)
			}
			continue
		}

		raw, ok := b.lookup(key)
		if !ok {
			continue
		}
		if err := assign(field, strings.TrimSpace(raw)); err != nil {
			b.errs = append(b.errs, fmt.Errorf("%s: %w", key, err))
		}
	}
}

// assign parses raw into field according to its type
func assign(field reflect.Value, raw string) error {
	if field.Addr().Type().Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
	}

	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q", raw)
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(raw)
	case field.CanInt():
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		field.SetInt(n)
	case field.Kind() == reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", raw)
		}
		field.SetBool(v)
	case field.CanFloat():
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid number %q", raw)
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
