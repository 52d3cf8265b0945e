package formdata

import "errors"

var (
	ErrMalformed     = errors.New("formdata: malformed multipart body")
	ErrFileTooLarge  = errors.New("formdata: file too large")
	ErrFieldTooLarge = errors.New("formdata: field too large")
	ErrTooManyFields = errors.New("formdata: too many fields")
)
