//go:build unit || !integration

package validate

import (
	"testing"
)

func TestIsGreaterThanZero(t *testing.T) {
	// Test with value less than zero
	err := IsGreaterThanZero(-1, "value should be greater than zero")
	if err == nil || err.Error() != "value should be greater than zero" {
		t.Errorf("IsGreaterThanZero failed: expected error for value -1")
	}

	// Test with zero
	err = IsGreaterThanZero(0, "value should be greater than zero")
	if err == nil || err.Error() != "value should be greater than zero" {
		t.Errorf("IsGreaterThanZero failed: expected error for value 0")
	}

	// Test with value greater than zero
	err = IsGreaterThanZero(1, "value should be greater than zero")
	if err != nil {
		t.Errorf("IsGreaterThanZero failed: unexpected error for value 1")
	}

	var size uint64 = 1 << 20
	if err = IsGreaterThanZero(size, "value should be greater than zero"); err != nil {
		t.Errorf("IsGreaterThanZero failed: unexpected error for uint64 value %d", size)
	}
}

func TestIsAtMost(t *testing.T) {
	if err := IsAtMost(3, 4, "too big"); err != nil {
		t.Errorf("IsAtMost failed: unexpected error for 3 <= 4")
	}
	if err := IsAtMost(4, 4, "too big"); err != nil {
		t.Errorf("IsAtMost failed: unexpected error for 4 <= 4")
	}
	err := IsAtMost(uint64(1)<<63, uint64(1)<<62, "too big: %d", 1)
	if err == nil || err.Error() != "too big: 1" {
		t.Errorf("IsAtMost failed: expected error for value above limit, got %v", err)
	}
}
