package authsdk

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	requiredReason = "required"

	// MinPasswordLen is deliberately above the usual 8: these accounts sit
	// behind long-lived refresh cookies, so offline guessing is the threat.
	MinPasswordLen = 12
	MaxPasswordLen = 128
	MaxNameLen     = 50
)

var reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the registration request fields.
// Returns a map of field names to error messages, or nil if all are valid.
func (r RegisterRequest) Validate() map[string]string {
	errs := make(map[string]string)

	validateEmail(errs, r.Email)

	if reason := passwordReason(r.Password); reason != "" {
		errs["password"] = reason
	}
	if r.ConfirmPassword != r.Password {
		errs["confirm_password"] = "must match password"
	}

	if len(strings.TrimSpace(r.FirstName)) > MaxNameLen {
		errs["first_name"] = "too long (max 50)"
	}
	if len(strings.TrimSpace(r.LastName)) > MaxNameLen {
		errs["last_name"] = "too long (max 50)"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks the login request fields. Only presence is enforced here;
// whether the credentials are right is the server's call.
func (r LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = requiredReason
	}
	if r.Password == "" {
		errs["password"] = requiredReason
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks a post create/update body.
func (p PostInput) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(p.Title) == "" {
		errs["title"] = requiredReason
	} else if len(p.Title) > 200 {
		errs["title"] = "too long (max 200)"
	}

	if strings.TrimSpace(p.Image) == "" {
		errs["image"] = requiredReason
	}
	if strings.TrimSpace(p.Content) == "" {
		errs["content"] = requiredReason
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateEmail(errs map[string]string, email string) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		errs["email"] = requiredReason
	case len(email) > 254 || !reEmail.MatchString(email):
		errs["email"] = "must be a valid email address"
	}
}

// passwordReason returns why the password is unacceptable, or "" when it
// meets the policy: 12-128 chars with upper, lower, digit and special.
func passwordReason(pw string) string {
	switch {
	case pw == "":
		return requiredReason
	case len(pw) < MinPasswordLen:
		return "too short (min 12)"
	case len(pw) > MaxPasswordLen:
		return "too long (max 128)"
	}

	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}

	switch {
	case !upper:
		return "must contain an uppercase letter"
	case !lower:
		return "must contain a lowercase letter"
	case !digit:
		return "must contain a digit"
	case !special:
		return "must contain a special character"
	}
	return ""
}
