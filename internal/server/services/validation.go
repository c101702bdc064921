package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/TrisanthBST/speech-to-text-backend/internal/common"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique index see one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) < minNameLength {
		return fmt.Errorf("%w: name must be at least %d characters", common.ErrValidation, minNameLength)
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", common.ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}
	return nil
}
