package validators

import "errors"

var (
	ErrPasswordEmpty   = errors.New("no password provided")
	ErrPasswordTooLong = errors.New("password is too long")
)

// Long inputs would make every hash attempt expensive
const maxPasswordSize = 255

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) > maxPasswordSize {
		return ErrPasswordTooLong
	}

	return nil
}
