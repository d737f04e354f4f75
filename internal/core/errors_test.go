package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMatchesCode(t *testing.T) {
	err := NewError("SetLayerPosition", ErrIdxLayer)

	if !errors.Is(err, ErrIdxLayer) {
		t.Error("errors.Is should match the error code")
	}
	if errors.Is(err, ErrIdxSprite) {
		t.Error("errors.Is should not match a different code")
	}
	if err.Error() != "SetLayerPosition: Layer index out of range" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := fmt.Errorf("scene: %w", err)
	if CodeOf(wrapped) != ErrIdxLayer {
		t.Errorf("CodeOf(wrapped) = %v, expected ErrIdxLayer", CodeOf(wrapped))
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != OK {
		t.Error("CodeOf(nil) should be OK")
	}
	if CodeOf(ErrWrongFormat) != ErrWrongFormat {
		t.Error("CodeOf(bare code) should return the code")
	}
	if CodeOf(errors.New("boom")) != ErrUnsupported {
		t.Error("CodeOf(foreign error) should be ErrUnsupported")
	}

	cause := errors.New("line 3")
	err := WrapError("LoadTilemap", ErrWrongFormat, cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable")
	}
}

func TestErrorString(t *testing.T) {
	if ErrorString(OK) != "No error" {
		t.Errorf("ErrorString(OK) = %q", ErrorString(OK))
	}
	if ErrorString(ErrorCode(999)) != "Invalid error code" {
		t.Errorf("ErrorString(999) = %q", ErrorString(ErrorCode(999)))
	}
	for c := OK; c < maxErrorCode; c++ {
		if ErrorString(c) == "" {
			t.Errorf("code %d has no description", c)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in       string
		expected Color
	}{
		{"#ff0000", ColorRed},
		{"00ff00", ColorGreen},
		{"#800000ff", ColorBlue}, // Tiled #aarrggbb
	}
	for _, tc := range tests {
		got, err := ParseHexColor(tc.in)
		if err != nil {
			t.Fatalf("ParseHexColor(%q) failed: %v", tc.in, err)
		}
		if got != tc.expected {
			t.Errorf("ParseHexColor(%q) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
	if _, err := ParseHexColor("#fff"); err == nil {
		t.Error("short color should fail")
	}
	if ColorRed.Hex() != "#ff0000" {
		t.Errorf("Hex() = %q", ColorRed.Hex())
	}
}
