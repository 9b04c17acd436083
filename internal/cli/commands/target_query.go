package commands

import (
	"GlobalpingCLI/internal/cli/domain"
	"GlobalpingCLI/pkg/validator"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrMissingTarget        = errors.New("provided target is empty")
	ErrInvalidCommandFormat = errors.New("invalid command format, expected TARGET [from LOCATION...]")
)

// TargetQuery is the positional part of a measurement command:
// TARGET [@resolver] [from LOCATION...].
type TargetQuery struct {
	Target         string
	LocationTokens []string
	Resolver       string
}

func ParseTargetQuery(command domain.Command, args []string) (*TargetQuery, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil, ErrMissingTarget
	}

	query := &TargetQuery{}

	resolver, rest := findAndRemoveResolver(args)
	if resolver != "" {
		if !command.AcceptsResolver() {
			return nil, fmt.Errorf("command %s does not accept a resolver argument, @%s was provided", command, resolver)
		}
		if _, err := validator.ValidateResolver(resolver); err != nil {
			return nil, err
		}
		query.Resolver = resolver
	}

	target, err := validator.NormalizeTarget(rest[0])
	if err != nil {
		return nil, err
	}
	query.Target = target

	if len(rest) > 1 {
		if rest[1] != "from" {
			return nil, ErrInvalidCommandFormat
		}
		query.LocationTokens = slices.Clone(rest[1:])
	}

	return query, nil
}

// findAndRemoveResolver extracts the first dig-style @resolver token after the target.
// A token directly after "from" is a location, not a resolver.
func findAndRemoveResolver(args []string) (string, []string) {
	for i := 1; i < len(args); i++ {
		if len(args[i]) > 1 && args[i][0] == '@' && args[i-1] != "from" {
			return args[i][1:], slices.Delete(slices.Clone(args), i, i+1)
		}
	}
	return "", args
}
