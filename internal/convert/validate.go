package convert

import (
	"fmt"

	"mdpreview/internal/domain"
	"mdpreview/internal/infra/logging"
)

// Validator enforces the soft content size limit.
type Validator struct {
	MaxBytes int
	Log      *logging.Logger
}

// Validate returns a *domain.TooLargeError when content exceeds MaxBytes,
// logging the measured size at ERROR.
func (v Validator) Validate(content string) error {
	if size := len(content); size > v.MaxBytes {
		v.Log.Error(fmt.Sprintf("File too large: %d bytes", size), "limit_bytes", v.MaxBytes)
		return &domain.TooLargeError{Size: size, Limit: v.MaxBytes}
	}
	return nil
}

// tooLargeFragment is the in-band HTML reported for oversized content.
func tooLargeFragment(e *domain.TooLargeError) string {
	return fmt.Sprintf(`<div class="error">File too large: %.1fMB. Maximum allowed size is %.0fMB.</div>`,
		e.SizeMB(), e.LimitMB())
}
