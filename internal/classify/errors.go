package classify

import "fmt"

// InputError marks a problem with user-supplied arguments or input
// data, as opposed to an unexpected runtime failure. The message is
// specific: where multiple samples or modules are at fault, all of
// them are named.
type InputError struct {
	msg string
}

func (e *InputError) Error() string {
	return "Input Error: " + e.msg
}

func inputErrorf(format string, args ...interface{}) *InputError {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}
