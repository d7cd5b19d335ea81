package cli

import (
	"errors"
	"fmt"
)

// ErrUsage marks errors caused by how xsrc was invoked: bad flags or
// arguments, malformed config files, unwritable outputs. Schema compile
// errors are not usage errors; main exits 2 for the former, 1 for the
// latter.
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

// usagef builds a usage error with a formatted message.
func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func (e usageError) Error() string { return e.msg }

func (e usageError) Is(target error) bool { return target == ErrUsage }
