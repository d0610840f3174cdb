package domain

import (
	"errors"
	"testing"
)

func TestIPInRange(t *testing.T) {
	cases := []struct {
		ip, rng string
		want    bool
	}{
		{"203.0.113.42", "203.0.113.0/24", true},
		{"203.0.114.1", "203.0.113.0/24", false},
		{"10.0.0.5", "10.0.0.5", true},
		{"10.0.0.6", "10.0.0.5", false},
		{"192.168.1.9", "192.168.1.7/16", true},
		{"2001:db8::1", "2001:db8::/32", true},
		{"::ffff:203.0.113.42", "203.0.113.0/24", true},
		{"not-an-ip", "10.0.0.0/8", false},
		{"10.0.0.1", "10.0.0.0/99", false},
	}
	for _, tc := range cases {
		if got := IPInRange(tc.ip, tc.rng); got != tc.want {
			t.Fatalf("IPInRange(%q, %q) = %v, want %v", tc.ip, tc.rng, got, tc.want)
		}
	}
}

func TestWouldBlockCurrentSession(t *testing.T) {
	if !WouldBlockCurrentSession("203.0.113.0/24", "203.0.113.42") {
		t.Fatalf("expected range covering the session IP to block")
	}
	if WouldBlockCurrentSession("198.51.100.0/24", "203.0.113.42") {
		t.Fatalf("unrelated range must not block")
	}
	if WouldBlockCurrentSession("203.0.113.0/24", "") {
		t.Fatalf("unknown session IP must not block")
	}
}

func TestParseIPRange_Invalid(t *testing.T) {
	if _, err := ParseIPRange("300.1.1.1"); !errors.Is(err, ErrInvalidIP) {
		t.Fatalf("expected ErrInvalidIP, got %v", err)
	}
	p, err := ParseIPRange("10.1.2.3/8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.String() != "10.0.0.0/8" {
		t.Fatalf("expected masked prefix, got %s", p)
	}
}
