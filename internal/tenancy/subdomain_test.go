package tenancy

import (
	"testing"
)

func TestParseSubdomain_NoSubdomain(t *testing.T) {
	hosts := []string{
		"smartschoolerp.xyz",
		"smartschoolerp.xyz:443",
		"localhost",
		"localhost:3000",
		"example.com",
	}

	for _, host := range hosts {
		if got := ParseSubdomain(host, ""); got != "" {
			t.Errorf("expected no subdomain for host %q, got %q", host, got)
		}
	}
}

func TestParseSubdomain_FirstLabel(t *testing.T) {
	testCases := []struct {
		host     string
		expected string
	}{
		{"dps-ranchi.smartschoolerp.xyz", "dps-ranchi"},
		{"dps-ranchi.smartschoolerp.xyz:443", "dps-ranchi"},
		{"admin.smartschoolerp.xyz", "admin"},
		{"ABC.smartschoolerp.xyz", "ABC"},
		{"a.b.c.d", "a"},
	}

	for _, tc := range testCases {
		if got := ParseSubdomain(tc.host, ""); got != tc.expected {
			t.Errorf("host %q: expected subdomain %q, got %q", tc.host, tc.expected, got)
		}
	}
}

func TestParseSubdomain_WWWIsRootAlias(t *testing.T) {
	if got := ParseSubdomain("www.smartschoolerp.xyz", ""); got != "" {
		t.Errorf("expected www to resolve to no subdomain, got %q", got)
	}
}

func TestParseSubdomain_OverrideWinsVerbatim(t *testing.T) {
	if got := ParseSubdomain("localhost:3000", "dps-ranchi"); got != "dps-ranchi" {
		t.Errorf("expected override to win, got %q", got)
	}
	// Override beats hostname parsing entirely
	if got := ParseSubdomain("other.smartschoolerp.xyz", "dps-ranchi"); got != "dps-ranchi" {
		t.Errorf("expected override to win over hostname, got %q", got)
	}
}

func TestValidateSubdomain_Valid(t *testing.T) {
	validSubdomains := []string{
		"dps-ranchi",
		"abc",
		"school123",
		"my-school-123",
		"a1b",
	}

	for _, sub := range validSubdomains {
		if err := ValidateSubdomain(sub); err != nil {
			t.Errorf("expected subdomain %q to be valid, got error: %v", sub, err)
		}
	}
}

func TestValidateSubdomain_Invalid(t *testing.T) {
	testCases := []struct {
		subdomain string
		reason    string
	}{
		{"ab", "too short"},
		{"", "empty string"},
		{"-abc", "starts with hyphen"},
		{"abc-", "ends with hyphen"},
		{"My-School", "contains uppercase"},
		{"my_school", "contains underscore"},
		{"my.school", "contains dot"},
		{"my school", "contains space"},
		{"admin", "reserved"},
		{"www", "reserved"},
		{"api", "reserved"},
		{"app", "reserved"},
		{"mail", "reserved"},
		{"ftp", "reserved"},
		{"localhost", "reserved"},
		{"staging", "reserved"},
		{"dev", "reserved"},
		{"test", "reserved"},
	}

	for _, tc := range testCases {
		if err := ValidateSubdomain(tc.subdomain); err == nil {
			t.Errorf("expected subdomain %q to be invalid (%s), but no error was returned", tc.subdomain, tc.reason)
		}
	}
}

func TestValidateSubdomain_LengthBounds(t *testing.T) {
	// Maximum valid length (63 chars)
	sub63 := "abcdefghijklmnopqrstuvwxyz0123456789abcdefghijklmnopqrstuvwxyza"
	if len(sub63) != 63 {
		t.Fatalf("test setup error: subdomain should be 63 chars, got %d", len(sub63))
	}
	if err := ValidateSubdomain(sub63); err != nil {
		t.Errorf("expected 63-char subdomain to be valid, got error: %v", err)
	}

	// Just over maximum (64 chars)
	if err := ValidateSubdomain(sub63 + "z"); err == nil {
		t.Error("expected 64-char subdomain to be invalid, but no error was returned")
	}
}

func TestIsLocalhost(t *testing.T) {
	if !IsLocalhost("localhost:3000") {
		t.Error("expected localhost:3000 to be local")
	}
	if !IsLocalhost("127.0.0.1:8080") {
		t.Error("expected 127.0.0.1:8080 to be local")
	}
	if IsLocalhost("dps-ranchi.smartschoolerp.xyz") {
		t.Error("expected production host not to be local")
	}
}
