package babel

import "errors"

var (
	ErrEmptyLocale    = errors.New("babel: default locale cannot be empty")
	ErrInvalidLocale  = errors.New("babel: invalid locale identifier")
	ErrInvalidTZ      = errors.New("babel: invalid timezone identifier")
	ErrEmptyDomain    = errors.New("babel: domain name cannot be empty")
	ErrNoRequestScope = errors.New("babel: no request scope in context")
)
