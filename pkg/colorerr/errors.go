// Package colorerr holds the sentinel error values shared across the
// color-science packages. Every solver entry point wraps one of these
// with fmt.Errorf's %w so callers can dispatch on the taxonomy with
// errors.Is while still getting a specific diagnostic string.
package colorerr

import "errors"

var (
	// ErrInvalidArgument covers malformed illuminant tokens, CCT out of
	// the supported synthesis range, and unknown channel/set names.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound covers missing camera/illuminant/training/observer data.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState covers a solver method invoked before its required
	// spectral data has been loaded.
	ErrInvalidState = errors.New("invalid solver state")

	// ErrParseError covers malformed JSON, inconsistent wavelength steps,
	// and channel-count mismatches in a spectral data file.
	ErrParseError = errors.New("parse error")

	// ErrNumericFailure covers a failed non-linear solve or a singular
	// matrix encountered while constructing a transform.
	ErrNumericFailure = errors.New("numeric failure")

	// ErrCalibrationDegenerate covers DNG dual-illuminant inputs that
	// can't support the iterative mired search (the first illuminant tag
	// zero, or neutral_RGB absent when required); the caller falls back
	// to the first calibration matrix and should warn.
	ErrCalibrationDegenerate = errors.New("calibration degenerate")
)
