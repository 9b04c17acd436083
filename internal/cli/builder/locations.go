package builder

import (
	"GlobalpingCLI/internal/cli/domain"
	"GlobalpingCLI/pkg/optional"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const fromKeyword = "from"

var ErrInvalidIndex = errors.New("invalid measurement index")

// ResolveLocation turns the positional location tokens into the single magic matcher.
// A leading "from" is a leftover of the "TARGET from LOCATIONS" grammar and is dropped.
// With no tokens left the --from value is used.
func ResolveLocation(tokens []string, from optional.Value[string]) domain.Location {
	if len(tokens) > 0 && tokens[0] == fromKeyword {
		tokens = tokens[1:]
	}

	if len(tokens) > 0 {
		return domain.Location{Magic: strings.Join(tokens, " ")}
	}

	return domain.Location{Magic: from.UnwrapOr("")}
}

// HistoryReference reports whether magic points at an earlier measurement instead
// of a location. "first" is 1, "last" and "previous" are -1, and "@N" is N.
// Positive indexes count from the oldest entry, negative ones from the newest.
func HistoryReference(magic string) (index int, ok bool, err error) {
	switch {
	case magic == "first":
		return 1, true, nil
	case magic == "last" || magic == "previous":
		return -1, true, nil
	case strings.HasPrefix(magic, "@"):
		n, convErr := strconv.Atoi(magic[1:])
		if convErr != nil || n == 0 {
			return 0, true, fmt.Errorf("%w: %q", ErrInvalidIndex, magic)
		}
		return n, true, nil
	}
	return 0, false, nil
}
