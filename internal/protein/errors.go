package protein

import (
	"errors"
	"fmt"
)

var (
	ErrNoModelURL   = errors.New("protein: no model url")
	ErrNoPrediction = errors.New("protein: no prediction")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("protein: %s returned status %d", e.URL, e.Code)
	}
	return fmt.Sprintf("protein: %s returned status %d: %s", e.URL, e.Code, e.Body)
}
