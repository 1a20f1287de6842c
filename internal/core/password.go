package core

import "strings"

// PasswordSpecialChars is the set of characters that satisfy the special
// character rule.
const PasswordSpecialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

// PasswordError lists the rules a rejected password failed. It matches
// ErrWeakPassword with errors.Is.
type PasswordError struct {
	Missing []string
}

func (e *PasswordError) Error() string {
	return ErrWeakPassword.Error() + ": needs " + strings.Join(e.Missing, ", ")
}

func (e *PasswordError) Is(target error) bool {
	return target == ErrWeakPassword
}

// ValidatePassword checks the strength rules: at least eight characters,
// one ASCII uppercase letter, one ASCII digit and one special character.
func ValidatePassword(pw string) error {
	var upper, digit, special bool
	for _, r := range pw {
		switch {
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			special = true
		}
	}

	var missing []string
	if len([]rune(pw)) < MinPasswordLength {
		missing = append(missing, "at least 8 characters")
	}
	if !upper {
		missing = append(missing, "an uppercase letter")
	}
	if !digit {
		missing = append(missing, "a digit")
	}
	if !special {
		missing = append(missing, "a special character")
	}
	if len(pw) > MaxPasswordBytes {
		missing = append(missing, "at most 72 bytes")
	}
	if len(missing) > 0 {
		return &PasswordError{Missing: missing}
	}
	return nil
}
