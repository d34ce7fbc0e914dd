package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// foreignKeyViolation is the SQLSTATE raised when a referenced row is missing
const foreignKeyViolation = pq.ErrorCode("23503")

// numericValueOutOfRange is raised when a bound id does not fit the column type
const numericValueOutOfRange = pq.ErrorCode("22003")

func isForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

func isNumericOutOfRange(err error) bool {
	return hasCode(err, numericValueOutOfRange)
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
