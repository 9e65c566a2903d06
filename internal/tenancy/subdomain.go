package tenancy

import (
	"fmt"
	"regexp"
	"strings"
)

// Special subdomains with dedicated handling at the edge
const (
	SubdomainAdmin = "admin"
	SubdomainWWW   = "www"
)

// HeaderSchoolSubdomain carries the parsed subdomain from the route guard to
// downstream resolvers.
const HeaderSchoolSubdomain = "x-school-subdomain"

// QueryParamSubdomain is the local-development override query parameter.
const QueryParamSubdomain = "subdomain"

// reservedSubdomains may never be claimed by a school
var reservedSubdomains = map[string]bool{
	"www":       true,
	"api":       true,
	"admin":     true,
	"app":       true,
	"mail":      true,
	"ftp":       true,
	"localhost": true,
	"staging":   true,
	"dev":       true,
	"test":      true,
}

// subdomainRegex validates lowercase alphanumeric with internal hyphens
var subdomainRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ParseSubdomain extracts the tenant subdomain candidate from a Host header.
// An override value (the ?subdomain= dev query parameter) wins verbatim.
// Hostnames with fewer than three labels have no subdomain, and the "www"
// label is a root-level alias. "admin" is returned as-is; it is the
// back-office, never a school.
func ParseSubdomain(host, override string) string {
	if override != "" {
		return override
	}

	// Strip port if present
	if i := strings.LastIndex(host, ":"); i != -1 {
		host = host[:i]
	}

	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return ""
	}

	sub := labels[0]
	if sub == SubdomainWWW {
		return ""
	}
	return sub
}

// IsLocalhost reports whether the host is a local development hostname.
func IsLocalhost(host string) bool {
	if i := strings.LastIndex(host, ":"); i != -1 {
		host = host[:i]
	}
	return host == "localhost" || host == "127.0.0.1"
}

// ValidateSubdomain checks whether a subdomain may be assigned to a school.
// Rules: length 3-63, lowercase alphanumeric plus internal hyphens, must
// start and end alphanumeric, and must not be a reserved word.
func ValidateSubdomain(subdomain string) error {
	if len(subdomain) < 3 || len(subdomain) > 63 {
		return fmt.Errorf("subdomain must be between 3 and 63 characters")
	}
	if !subdomainRegex.MatchString(subdomain) {
		return fmt.Errorf("subdomain must contain only lowercase letters, numbers, and hyphens, and cannot start or end with a hyphen")
	}
	if reservedSubdomains[subdomain] {
		return fmt.Errorf("subdomain %q is reserved", subdomain)
	}
	return nil
}
