package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If given error implements unpacker interface, it is flattened. All errors
// are combined into a single multi error instance.
func Append(errs ...error) error {
	var res multiError
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(*multiError); ok {
			res.errs = append(res.errs, m.errs...)
		} else {
			res.errs = append(res.errs, e)
		}
	}
	if len(res.errs) == 0 {
		return nil
	}
	return &res
}

type multiError struct {
	errs []error
}

func (e *multiError) Error() string {
	switch len(e.errs) {
	case 0:
		return "no errors"
	case 1:
		return e.errs[0].Error()
	}
	points := make([]string, len(e.errs))
	for i, err := range e.errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(e.errs), strings.Join(points, "\n\t"))
}

// Cause returns the first error of the collection. A multi error is
// matchable by kind if any of the contained errors is of that kind, but
// Cause must return a single error, so the first one wins.
func (e *multiError) Cause() error {
	if len(e.errs) > 0 {
		return e.errs[0]
	}
	return nil
}
