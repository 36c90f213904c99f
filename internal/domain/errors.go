package domain

import (
	"errors"
	"fmt"
)

const bytesPerMB = 1024 * 1024

var (
	// ErrContentTooLarge signals that submitted content exceeds the soft size limit.
	ErrContentTooLarge = errors.New("File too large")
	// ErrRenderTimeout signals that rendering did not finish within its deadline.
	ErrRenderTimeout = errors.New("render timed out")
	// ErrPDFDisabled signals that PDF export is not configured.
	ErrPDFDisabled = errors.New("pdf export disabled")
)

// TooLargeError carries the measured and allowed content sizes.
type TooLargeError struct {
	Size  int
	Limit int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds limit of %d bytes", ErrContentTooLarge, e.Size, e.Limit)
}

func (e *TooLargeError) Unwrap() error { return ErrContentTooLarge }

// SizeMB reports the measured size in MiB.
func (e *TooLargeError) SizeMB() float64 { return float64(e.Size) / bytesPerMB }

// LimitMB reports the allowed size in MiB.
func (e *TooLargeError) LimitMB() float64 { return float64(e.Limit) / bytesPerMB }
