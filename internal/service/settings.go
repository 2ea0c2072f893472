// internal/service/settings.go
package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"micro-ledger/internal/domain"
	"micro-ledger/internal/util"
)

// LedgerSettings are the precision and currency rules shared by every service.
type LedgerSettings struct {
	Currency             string
	Scale                int32
	MaxDescriptionLength int
}

// DefaultLedgerSettings returns KES at two decimal places with a 255 rune description limit.
func DefaultLedgerSettings() LedgerSettings {
	return LedgerSettings{
		Currency:             "KES",
		Scale:                domain.DefaultScale,
		MaxDescriptionLength: 255,
	}
}

// normalizeDescription trims description and returns nil when nothing is left.
func (s LedgerSettings) normalizeDescription(description string) (*string, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return nil, nil
	}
	if s.MaxDescriptionLength > 0 && utf8.RuneCountInString(trimmed) > s.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", util.ErrInvalidInput, s.MaxDescriptionLength)
	}
	return &trimmed, nil
}
