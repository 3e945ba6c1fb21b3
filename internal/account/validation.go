package account

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

const (
	NicknameMinLen = 2
	NicknameMaxLen = 20
	BioMaxLen      = 35

	PasswordMinEntropyBits = 30
)

// ValidateSignUpForm checks the sign-up input and returns one entry per
// offending field. An empty slice means the form is acceptable.
func ValidateSignUpForm(form SignUpForm) []FieldError {
	var errs []FieldError

	if n := utf8.RuneCountInString(form.Nickname); n < NicknameMinLen || n > NicknameMaxLen {
		errs = append(errs, FieldError{
			Field:   "nickname",
			Message: fmt.Sprintf("nickname must be %d-%d characters", NicknameMinLen, NicknameMaxLen),
		})
	}

	if !validEmail(form.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email address"})
	}

	if err := passwordvalidator.Validate(form.Password, PasswordMinEntropyBits); err != nil {
		errs = append(errs, FieldError{Field: "password", Message: err.Error()})
	}

	return errs
}

// ValidateBio enforces the profile bio length limit.
func ValidateBio(bio string) []FieldError {
	if utf8.RuneCountInString(bio) > BioMaxLen {
		return []FieldError{{
			Field:   "bio",
			Message: fmt.Sprintf("bio must be at most %d characters", BioMaxLen),
		}}
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
