package core

import (
	"errors"
	"fmt"
)

// ErrorCode is the flat error taxonomy shared by the engine, the resource
// stores and the asset loaders. It implements error so codes can be used as
// sentinels with errors.Is.
type ErrorCode int

const (
	OK                 ErrorCode = iota // No error
	ErrOutOfMemory                      // Not enough memory
	ErrIdxLayer                         // Layer index out of range
	ErrIdxSprite                        // Sprite index out of range
	ErrIdxAnimation                     // Animation index out of range
	ErrIdxPicture                       // Picture, tile or color index out of range
	ErrRefTileset                       // Invalid tileset reference
	ErrRefTilemap                       // Invalid tilemap reference
	ErrRefSpriteset                     // Invalid spriteset reference
	ErrRefPalette                       // Invalid palette reference
	ErrRefSequence                      // Invalid sequence reference
	ErrRefSequencePack                  // Invalid sequence pack reference
	ErrRefBitmap                        // Invalid bitmap reference
	ErrNullPointer                      // Missing required argument
	ErrFileNotFound                     // Resource file not found
	ErrWrongFormat                      // Resource file has invalid format
	ErrWrongSize                        // A width or height parameter is invalid
	ErrUnsupported                      // Unsupported function
	ErrRasterCallback                   // Raster callback failed, frame aborted
	maxErrorCode
)

var errorNames = [...]string{
	OK:                 "No error",
	ErrOutOfMemory:     "Not enough memory",
	ErrIdxLayer:        "Layer index out of range",
	ErrIdxSprite:       "Sprite index out of range",
	ErrIdxAnimation:    "Animation index out of range",
	ErrIdxPicture:      "Picture or tile index out of range",
	ErrRefTileset:      "Invalid Tileset reference",
	ErrRefTilemap:      "Invalid Tilemap reference",
	ErrRefSpriteset:    "Invalid Spriteset reference",
	ErrRefPalette:      "Invalid Palette reference",
	ErrRefSequence:     "Invalid Sequence reference",
	ErrRefSequencePack: "Invalid SequencePack reference",
	ErrRefBitmap:       "Invalid Bitmap reference",
	ErrNullPointer:     "Null pointer as argument",
	ErrFileNotFound:    "Resource file not found",
	ErrWrongFormat:     "Resource file has invalid format",
	ErrWrongSize:       "A width or height parameter is invalid",
	ErrUnsupported:     "Unsupported function",
	ErrRasterCallback:  "Raster callback failed",
}

// ErrorString returns the description of an error code.
func ErrorString(code ErrorCode) string {
	if code < 0 || code >= maxErrorCode {
		return "Invalid error code"
	}
	return errorNames[code]
}

// Error implements the error interface.
func (c ErrorCode) Error() string {
	return ErrorString(c)
}

// String returns the description of the code.
func (c ErrorCode) String() string {
	return ErrorString(c)
}

// Error is a failed operation: the operation name, the code and an optional cause.
type Error struct {
	Op   string
	Code ErrorCode
	Err  error
}

// NewError creates an error for op with the given code.
func NewError(op string, code ErrorCode) *Error {
	return &Error{Op: op, Code: code}
}

// WrapError creates an error for op with the given code and underlying cause.
func WrapError(op string, code ErrorCode, err error) *Error {
	return &Error{Op: op, Code: code, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

// Is matches against bare error codes so errors.Is(err, ErrIdxLayer) works.
func (e *Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the error code from err.
// Returns OK for nil and ErrUnsupported for errors outside the taxonomy.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}
	return ErrUnsupported
}
