package browser

import "fmt"

// Error represents a failure while driving the registry search form.
type Error struct {
	Query   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	prefix := "browser error"
	if e.Query != "" {
		prefix = fmt.Sprintf("browser error for query %s", e.Query)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
