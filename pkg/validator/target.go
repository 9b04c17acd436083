package validator

import (
	"net"
	"strings"
	"unicode/utf8"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// ValidateResolver accepts an IP address or a domain name.
func ValidateResolver(resolver string) (string, error) {
	if resolver == "" {
		return "", &InvalidArgumentError{Value: resolver, Field: FieldResolver, Expected: "an IP address or hostname"}
	}

	if net.ParseIP(resolver) != nil {
		return resolver, nil
	}

	if strings.Contains(resolver, "://") {
		return "", &InvalidArgumentError{Value: resolver, Field: FieldResolver, Expected: "an IP address or hostname"}
	}

	if _, ok := dns.IsDomainName(resolver); !ok {
		return "", &InvalidArgumentError{Value: resolver, Field: FieldResolver, Expected: "an IP address or hostname"}
	}
	return resolver, nil
}

// NormalizeTarget converts an internationalized hostname to its ASCII form.
// ASCII targets (including IP literals and URLs) are returned untouched.
func NormalizeTarget(target string) (string, error) {
	if isASCII(target) {
		return target, nil
	}
	return idna.Lookup.ToASCII(target)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
