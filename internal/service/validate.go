package service

import (
	"errors"
	"unicode/utf8"

	"github.com/coinboard/coinboard-go/internal/repository"
)

// Column limits of the users and articles tables, in characters.
const (
	maxUsernameLen   = 64
	maxEmailLen      = 255
	maxTitleLen      = 255
	maxAuthorNameLen = 64
)

type lengthRule struct {
	value string
	max   int
}

// checkLengths returns ErrFieldTooLong when any value exceeds its limit.
func checkLengths(rules ...lengthRule) error {
	for _, r := range rules {
		if utf8.RuneCountInString(r.value) > r.max {
			return ErrFieldTooLong
		}
	}
	return nil
}

// storeErr translates repository validation failures.
func storeErr(err error) error {
	if errors.Is(err, repository.ErrFieldTooLong) {
		return ErrFieldTooLong
	}
	return err
}
