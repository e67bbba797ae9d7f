package cli

import "fmt"

// ExitError asks main to exit with Code. Message, when set, is printed to
// stderr first; lint leaves it empty because the report already explains
// the failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Code)
}
