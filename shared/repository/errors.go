package repository

import (
	"errors"

	"rolloff/shared/constant"

	"github.com/lib/pq"
)

func hasPqCode(err error, code string) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

func IsUniqueViolation(err error) bool {
	return hasPqCode(err, constant.PqErrorCodeUniqueViolation)
}

func IsForeignKeyViolation(err error) bool {
	return hasPqCode(err, constant.PqErrorCodeFkViolation)
}

func IsSerializationFailure(err error) bool {
	return hasPqCode(err, constant.PqErrorCodeSerializationFailure)
}
