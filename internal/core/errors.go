// errors.go - Sentinel error values for the cart loader, wrapped with
// fmt.Errorf/%w and checked with errors.Is, in the idiom the example
// corpus uses throughout (plain error returns, no panic/recover control
// flow for expected failure modes).

package core

import "errors"

var (
	// ErrRomHeaderInvalid is returned when the 68-byte header's magic
	// does not read "KHPR".
	ErrRomHeaderInvalid = errors.New("rom: header invalid")

	// ErrRomTruncated is returned when fewer bytes are present than
	// total_size declares.
	ErrRomTruncated = errors.New("rom: truncated")

	// ErrSegmentTypeUnknown is returned when a segment's type byte is
	// not one of the six defined segment kinds.
	ErrSegmentTypeUnknown = errors.New("rom: unknown segment type")

	// ErrBankIndexOutOfRange is returned when a segment's bank index
	// exceeds the bank count declared in the header.
	ErrBankIndexOutOfRange = errors.New("rom: bank index out of range")

	// ErrPaletteIoError is returned when a palette file cannot be read
	// or is not exactly 768 bytes.
	ErrPaletteIoError = errors.New("palette: io error")
)
