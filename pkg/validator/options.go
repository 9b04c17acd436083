package validator

import (
	"fmt"
	"slices"
	"strings"
)

// Field names used in error messages.
const (
	FieldCommand  = "command"
	FieldProtocol = "protocol"
	FieldQuery    = "query"
	FieldMethod   = "method"
	FieldLimit    = "limit"
	FieldResolver = "resolver"
)

// Commands lists the supported measurement types in display order.
var Commands = []string{"ping", "traceroute", "dns", "mtr", "http"}

var (
	TracerouteProtocols = []string{"TCP", "UDP", "ICMP"}
	DNSQueryTypes       = []string{"A", "AAAA", "ANY", "CNAME", "DNSKEY", "DS", "MX", "NS", "NSEC", "PTR", "RRSIG", "SOA", "TXT", "SRV"}
	DNSProtocols        = []string{"UDP", "TCP"}
	MTRProtocols        = []string{"TCP", "UDP", "ICMP"}
	HTTPProtocols       = []string{"HTTP", "HTTPS", "HTTP2"}
	HTTPMethods         = []string{"GET", "HEAD"}
)

type fieldKey struct {
	command string
	field   string
}

var allowed = map[fieldKey][]string{
	{"traceroute", FieldProtocol}: TracerouteProtocols,
	{"dns", FieldQuery}:           DNSQueryTypes,
	{"dns", FieldProtocol}:        DNSProtocols,
	{"mtr", FieldProtocol}:        MTRProtocols,
	{"http", FieldProtocol}:       HTTPProtocols,
	{"http", FieldMethod}:         HTTPMethods,
}

// InvalidArgumentError is returned when a value is outside its allowed set.
type InvalidArgumentError struct {
	Value    string
	Field    string
	Expected string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q for %q, expected %q", e.Value, e.Field, e.Expected)
}

func newInvalidArgument(value, field string, expected []string) *InvalidArgumentError {
	return &InvalidArgumentError{
		Value:    value,
		Field:    field,
		Expected: strings.Join(expected, ", "),
	}
}

// Validate checks that value belongs to the allowed set of field for command.
// Matching is case-sensitive.
func Validate(command, field, value string) (string, error) {
	if field == FieldCommand {
		return ValidateCommand(value)
	}

	values, ok := allowed[fieldKey{command, field}]
	if !ok {
		return "", fmt.Errorf("field %q is not restricted for command %q", field, command)
	}

	if !slices.Contains(values, value) {
		return "", newInvalidArgument(value, field, values)
	}
	return value, nil
}

// ValidateCommand checks that command is one of [Commands].
func ValidateCommand(command string) (string, error) {
	if !slices.Contains(Commands, command) {
		return "", newInvalidArgument(command, FieldCommand, Commands)
	}
	return command, nil
}

// AllowedValues returns the allowed set for field of command, nil when unrestricted.
func AllowedValues(command, field string) []string {
	if field == FieldCommand {
		return slices.Clone(Commands)
	}
	return slices.Clone(allowed[fieldKey{command, field}])
}

// ValidateLimit checks that limit is a positive probe count.
func ValidateLimit(limit int) (int, error) {
	if limit < 1 {
		return 0, &InvalidArgumentError{
			Value:    fmt.Sprint(limit),
			Field:    FieldLimit,
			Expected: "a positive integer",
		}
	}
	return limit, nil
}
