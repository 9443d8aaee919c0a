package auth

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 64
	PasswordMinLength = 8
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// NormalizeUsername trims and lower-cases a username so lookups are case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// UsernameIssue returns the reason username is unacceptable, or "" when it is valid.
func UsernameIssue(username string) string {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return "is required"
	case len(username) < UsernameMinLength || len(username) > UsernameMaxLength:
		return "must be between 3 and 64 characters"
	case !usernamePattern.MatchString(username):
		return "may only contain letters, digits, '.', '_' and '-'"
	}
	return ""
}

// PasswordIssue returns the reason password is too weak, or "" when it is acceptable.
func PasswordIssue(password string) string {
	if password == "" {
		return "is required"
	}
	if len(password) < PasswordMinLength {
		return "must be at least 8 characters"
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "must contain upper-case, lower-case and numeric characters"
	}
	return ""
}
