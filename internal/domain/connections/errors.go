package connections

import "errors"

var (
	ErrConnectionNotFound = errors.New("connection does not exist")
	ErrWorkNotFound       = errors.New("one or both works do not exist")
	ErrYearOrder          = errors.New("the year of the upstream work must not be later than the year of the downstream work")
	ErrDuplicateType      = errors.New("there is already a connection of the same type between these two works")
	ErrPrimaryConflict    = errors.New("a primary connection (adaptation or sequel) already exists between these two works")
	ErrMissingImages      = errors.New("must provide source work and target work images")
	ErrMissingComment     = errors.New("must provide connection explanation")
)
