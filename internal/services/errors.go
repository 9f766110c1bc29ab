package services

import (
	"fmt"

	apperrors "vitiscli/internal/errors"
)

// Window is an inclusive year range. Zero bounds are open.
type Window struct {
	Start int `json:"start,omitempty"`
	End   int `json:"end,omitempty"`
}

// Validate rejects a range whose start is after its end
func (w Window) Validate() error {
	if w.Start != 0 && w.End != 0 && w.Start > w.End {
		return apperrors.NewAppError(apperrors.ErrTypeValidation,
			fmt.Sprintf("start year %d is after end year %d", w.Start, w.End), nil).
			WithContext("start", w.Start).
			WithContext("end", w.End)
	}
	return nil
}

// Or fills the zero bounds of w from fallback
func (w Window) Or(fallback Window) Window {
	if w.Start == 0 {
		w.Start = fallback.Start
	}
	if w.End == 0 {
		w.End = fallback.End
	}
	return w
}

func (w Window) String() string {
	return fmt.Sprintf("%d-%d", w.Start, w.End)
}

// invalidArgument reports a service argument outside its domain
func invalidArgument(format string, args ...any) error {
	return apperrors.NewAppError(apperrors.ErrTypeValidation, fmt.Sprintf(format, args...), nil)
}
