package common

import (
	"errors"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestErrors_AreDistinct(t *testing.T) {
	if errors.Is(ErrInvalidToken, ErrTokenExpired) {
		t.Fatalf("ErrInvalidToken must not match ErrTokenExpired")
	}
	if errors.Is(ErrorNotFound, ErrInvalidToken) {
		t.Fatalf("ErrorNotFound must not match ErrInvalidToken")
	}
}
