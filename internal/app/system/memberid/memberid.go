// Package memberid derives the next human-readable member identifier.
//
// Non-guest members share one zero-padded decimal sequence ("0001",
// "0002", ...). Guests number separately with a "T" prefix ("T001",
// "T002", ...). The two sequences never mix. Callers look up the
// highest assigned identifier in the requested category and pass it to
// Next; the unique index on member_id is what actually guarantees no
// duplicates, so callers must retry allocation when the insert fails
// with a duplicate key.
package memberid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Category selects which numbering sequence an identifier belongs to.
type Category int

const (
	// Regular is the shared sequence for every non-guest member type.
	Regular Category = iota
	// Guest is the "T"-prefixed sequence for guest members.
	Guest
)

const (
	regularWidth = 4
	guestWidth   = 3
	guestPrefix  = "T"
)

// Seed returns the first identifier of a category's sequence.
func Seed(cat Category) string {
	if cat == Guest {
		return guestPrefix + strings.Repeat("0", guestWidth-1) + "1"
	}
	return strings.Repeat("0", regularWidth-1) + "1"
}

// ErrMalformed is returned when an identifier does not belong to the
// requested category's sequence.
var ErrMalformed = errors.New("malformed member identifier")

// CategoryFor maps a member type to its numbering category.
func CategoryFor(memberType string) Category {
	if memberType == "guest" {
		return Guest
	}
	return Regular
}

// Parse extracts the numeric value of an identifier in the given
// category. "0042" → 42 for Regular, "T007" → 7 for Guest.
func Parse(cat Category, id string) (int, error) {
	s := id
	if cat == Guest {
		if !strings.HasPrefix(s, guestPrefix) {
			return 0, ErrMalformed
		}
		s = strings.TrimPrefix(s, guestPrefix)
	}
	if s == "" {
		return 0, ErrMalformed
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ErrMalformed
	}
	return n, nil
}

// Render formats a sequence number as an identifier in the given
// category, zero-padding to the category's minimum width. Values past
// the padded range widen naturally (9999 → "10000", guest 999 → "T1000").
func Render(cat Category, n int) string {
	if cat == Guest {
		return fmt.Sprintf("%s%0*d", guestPrefix, guestWidth, n)
	}
	return fmt.Sprintf("%0*d", regularWidth, n)
}

// Next returns the identifier after highest within the category.
// An empty highest means the sequence has not started and yields the
// category seed.
func Next(cat Category, highest string) (string, error) {
	if highest == "" {
		return Seed(cat), nil
	}
	n, err := Parse(cat, highest)
	if err != nil {
		return "", fmt.Errorf("next member id after %q: %w", highest, err)
	}
	return Render(cat, n+1), nil
}
