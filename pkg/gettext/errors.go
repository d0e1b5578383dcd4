package gettext

import "errors"

var (
	ErrNotFound           = errors.New("gettext: catalog not found")
	ErrMalformedCatalog   = errors.New("gettext: malformed catalog")
	ErrInvalidPluralForms = errors.New("gettext: invalid plural-forms expression")
)
