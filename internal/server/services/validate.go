package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/dmitrijs2005/gophledger/internal/server/currency"
	"github.com/shopspring/decimal"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

func checkLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		if min > 0 {
			return invalid("%s must be between %d and %d characters", field, min, max)
		}
		return invalid("%s must be at most %d characters", field, max)
	}
	return nil
}

func checkEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email %q is not a valid address", email)
	}
	return nil
}

func checkPositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return invalid("%s must be greater than 0", field)
	}
	return nil
}

// normalizeCurrency upper-cases code and falls back to def when empty.
func normalizeCurrency(code, def string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return def, nil
	}
	if !currency.ValidCode(code) {
		return "", invalid("currency %q must be a 3-letter code", code)
	}
	return code, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}
