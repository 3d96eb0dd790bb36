package wallet

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// PasswordPolicy decides whether a password may protect a keystore.
type PasswordPolicy interface {
	ValidatePassword(password string) error
}

// Policy is a character-class password policy.
type Policy struct {
	MinLength    int // in characters, not bytes
	RequireUpper bool
	RequireLower bool
	RequireDigit bool
}

// DefaultPolicy requires 8 characters with an uppercase letter, a lowercase
// letter and a digit.
var DefaultPolicy = Policy{
	MinLength:    8,
	RequireUpper: true,
	RequireLower: true,
	RequireDigit: true,
}

// ValidatePassword returns ErrWeakPassword, wrapped with the first failed
// rule, or nil.
func (p Policy) ValidatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < p.MinLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, p.MinLength)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case p.RequireUpper && !hasUpper:
		return fmt.Errorf("%w: must contain an uppercase letter", ErrWeakPassword)
	case p.RequireLower && !hasLower:
		return fmt.Errorf("%w: must contain a lowercase letter", ErrWeakPassword)
	case p.RequireDigit && !hasDigit:
		return fmt.Errorf("%w: must contain a digit", ErrWeakPassword)
	}
	return nil
}
