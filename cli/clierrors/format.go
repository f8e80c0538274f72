package clierrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brimdata/pqjson/zqe"
	"go.uber.org/multierr"
)

// Format flattens the errors combined in err, one per line.  Each error
// with a zqe.Kind other than Other is tagged with its kind so that input
// problems stand out from I/O failures.
func Format(err error) error {
	if err == nil {
		return nil
	}
	errs := multierr.Errors(err)
	if len(errs) == 1 {
		return errs[0]
	}
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, formatOne(err))
	}
	return errors.New(strings.Join(lines, "\n"))
}

func formatOne(err error) string {
	if kind := zqe.KindOf(err); kind != zqe.Other {
		return fmt.Sprintf("%s [%s]", err, kind.Name())
	}
	return err.Error()
}
