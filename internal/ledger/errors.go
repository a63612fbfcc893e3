package ledger

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrRecordNotFound  = errors.New("record not found")
	ErrPersistence     = errors.New("persistence failed")
	ErrValidation      = errors.New("validation failed")
	// ErrSuperseded is returned to an update or delete that was overtaken by a
	// newer request for the same record before it could be applied.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// result classifies err for metrics labels.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSuperseded):
		return "superseded"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrRecordNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "error"
	}
}
