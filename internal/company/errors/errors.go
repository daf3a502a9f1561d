package errors

import (
	"fmt"
)

var (
	ErrNotFound         = fmt.Errorf("not found")
	ErrDuplicateCompany = fmt.Errorf("duplicate company")
	ErrInvalidInput     = fmt.Errorf("invalid input")
)
