package core

import "strings"

// ParseSubmission interprets a chat line as a payment submission.
//
// The expected shape is "name-amount" with exactly one separator. Any
// other separator count returns ErrInvalidFormat; a bad name segment
// returns ErrInvalidName; a bad amount segment returns ErrInvalidAmount.
// On success the name is canonicalized and the amount rounded to cents.
func ParseSubmission(text string) (Submission, error) {
	text = strings.TrimSpace(text)
	if strings.Count(text, "-") != 1 {
		return Submission{}, ErrInvalidFormat
	}

	name, amountStr, _ := strings.Cut(text, "-")
	name = strings.TrimSpace(name)
	if !ValidName(name) {
		return Submission{}, ErrInvalidName
	}

	cents, err := ParseDecimalToCents(amountStr)
	if err != nil {
		return Submission{}, err
	}

	return Submission{
		MemberName: CanonicalName(name),
		Amount:     Money{Cents: cents},
	}, nil
}
