package validator

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResolver(t *testing.T) {
	for _, ok := range []string{"1.1.1.1", "2606:4700:4700::1111", "dns.google", "one.one.one.one."} {
		got, err := ValidateResolver(ok)
		require.NoError(t, err, ok)
		assert.Equal(t, ok, got)
	}

	for _, bad := range []string{"", "https://dns.google", "bad..name"} {
		_, err := ValidateResolver(bad)
		assert.Error(t, err, bad)
	}
}

func TestNormalizeTarget(t *testing.T) {
	cases := map[string]string{
		"example.com":    "example.com",
		"1.1.1.1":        "1.1.1.1",
		"2001:db8::1":    "2001:db8::1",
		"bücher.de":      "xn--bcher-kva.de",
		"Яндекс.рф":      "xn--d1acpjx3f.xn--p1ai",
		"ουτοπία.δπθ.gr": "xn--kxae4bafwg.xn--pxaix.gr",
	}
	for in, want := range cases {
		got, err := NormalizeTarget(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestDNSQueryTypesAreRecordTypes(t *testing.T) {
	for _, qt := range DNSQueryTypes {
		v, ok := dns.StringToType[qt]
		assert.True(t, ok, qt)
		assert.NotZero(t, v, qt)
	}
}
