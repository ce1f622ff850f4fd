package validate

import (
	"fmt"
	"reflect"
	"strings"
)

// NotBlank checks that the string is not empty or made only of whitespace.
func NotBlank(s string, msg string, args ...any) error {
	if strings.TrimSpace(s) == "" {
		return createError(msg, args...)
	}
	return nil
}

// NotNil checks that the value is not nil. Typed nil pointers, maps, slices,
// funcs, channels and interfaces count as nil.
func NotNil(value any, msg string, args ...any) error {
	if value == nil {
		return createError(msg, args...)
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return createError(msg, args...)
		}
	}
	return nil
}

// KeyNotInMap checks that the key is not already present in the map.
func KeyNotInMap[K comparable, V any](key K, m map[K]V, msg string, args ...any) error {
	if _, ok := m[key]; ok {
		return createError(msg, args...)
	}
	return nil
}

func createError(msg string, args ...any) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf(msg, args...)
}
