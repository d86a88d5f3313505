// Package idn flags hostnames whose displayed form differs from their
// ASCII form.
package idn

import (
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// profile is the lookup profile without STD3 rules, so hosts such as
// my_host.example.org pass through unchanged.
var profile = idna.New(idna.MapForLookup(), idna.BidiRule(), idna.StrictDomainName(false))

// Check returns the ASCII form of host and whether it is ambiguous, that
// is its ASCII (punycode) form and its Unicode form differ. IP literals
// are never ambiguous. Hosts the IDNA profile rejects are reported as
// ambiguous.
func Check(host string) (ascii string, ambiguous bool) {
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return host, false
	}
	ascii, err := profile.ToASCII(host)
	if err != nil {
		if ascii == "" {
			ascii = host
		}
		return ascii, true
	}
	unicode, err := profile.ToUnicode(ascii)
	if err != nil {
		return ascii, true
	}
	return ascii, ascii != unicode
}

// Checker implements port.HostnameChecker.
type Checker struct{}

func (Checker) Check(host string) (string, bool) { return Check(host) }
