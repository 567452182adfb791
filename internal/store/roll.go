package store

import (
	"fmt"
	"log"
	"sort"
	"strconv"
)

// RollPrefix is the fixed year prefix of every roll number.  The
// suffix after it is a zero-padded sequence in 1..999.
const RollPrefix = "2024"

// maxRollSuffix bounds the sequence portion of a roll number.
const maxRollSuffix = 999

// NextRollSuffix computes the next roll-number suffix from the roll
// numbers currently in use.  Suffixes freed by deletions are reused:
// the lowest unused integer starting from 1 wins, and only when the
// set is dense does allocation move past the current maximum.
// Malformed roll numbers are logged and skipped, never fatal.
//
// Pure function of its input; the caller must hold the roster write
// lock so the read-allocate-insert sequence appears atomic to other
// creators and deleters.
func NextRollSuffix(existing []string) (int, error) {
	suffixes := make([]int, 0, len(existing))
	for _, roll := range existing {
		n, err := parseRollSuffix(roll)
		if err != nil {
			log.Printf("roll allocator: skipping malformed roll number %q: %v", roll, err)
			continue
		}
		suffixes = append(suffixes, n)
	}
	sort.Ints(suffixes)

	next := 1
	for _, n := range suffixes {
		if n == next {
			next++
		} else if n > next {
			break
		}
	}
	if next > maxRollSuffix {
		return 0, ErrCapacityExceeded
	}
	return next, nil
}

// FormatRoll renders a suffix as a full roll number, e.g. 7 -> "2024007".
func FormatRoll(suffix int) string {
	return fmt.Sprintf("%s%03d", RollPrefix, suffix)
}

func parseRollSuffix(roll string) (int, error) {
	if len(roll) <= len(RollPrefix) {
		return 0, fmt.Errorf("too short")
	}
	n, err := strconv.Atoi(roll[len(RollPrefix):])
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("suffix %d out of range", n)
	}
	return n, nil
}
