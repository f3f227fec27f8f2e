package core

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// MaxNameLength bounds member names as stored in the database.
const MaxNameLength = 100

type (
	Money struct {
		Cents int64
	}

	// PaymentRecord is the single persisted entity: one cash payment
	// reported by a chat participant on behalf of a society member.
	PaymentRecord struct {
		ID          int64
		MemberName  string
		Amount      Money
		RecordedBy  int64
		PaymentDate time.Time
	}

	// Submission is a validated payment message before it is stored.
	Submission struct {
		MemberName string
		Amount     Money
	}

	// RangeTotal is the result of an aggregate sum query.
	RangeTotal struct {
		Total Money
		Count int64
	}

	// PaymentStats is the all-time aggregate summary behind /stats.
	PaymentStats struct {
		TotalPayments int64
		TotalAmount   Money
		AverageAmount Money
		MaxAmount     Money
		MinAmount     Money
		UniqueMembers int64
	}
)

var (
	ErrInvalidName   = errors.New("invalid member name")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidFormat = errors.New("invalid submission format")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidName reports whether the name is letters-and-spaces only,
// non-empty after trimming, and within the length bound.
func ValidName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength {
		return false
	}
	for _, r := range name {
		if r != ' ' && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// CanonicalName normalizes a member name for storage: surrounding
// whitespace dropped, inner runs of spaces collapsed, each word
// title-cased. Lookups stay case-insensitive regardless.
func CanonicalName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func (s Submission) Validate() error {
	if !ValidName(s.MemberName) {
		return ErrInvalidName
	}
	return s.Amount.Validate()
}
