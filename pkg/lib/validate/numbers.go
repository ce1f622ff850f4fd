package validate

// Number covers the integer and float kinds configuration values are parsed into.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// IsGreaterThanZero checks if the provided numeric value (of type T) is greater than zero.
// It returns an error if the value is not greater than zero, using the provided message and arguments.
func IsGreaterThanZero[T Number](value T, msg string, args ...any) error {
	if value <= 0 {
		return createError(msg, args...)
	}
	return nil
}

// IsAtMost checks that value does not exceed limit.
func IsAtMost[T Number](value, limit T, msg string, args ...any) error {
	if value > limit {
		return createError(msg, args...)
	}
	return nil
}
