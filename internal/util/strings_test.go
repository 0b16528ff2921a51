package util

import "testing"

func TestNormalizeHost(t *testing.T) {
	tests := map[string]string{
		"Example.COM":        "example.com",
		"  www.example.com.": "www.example.com",
		"example.com..":      "example.com",
		"":                   "",
	}
	for in, want := range tests {
		if got := NormalizeHost(in); got != want {
			t.Errorf("NormalizeHost(%q) = %q, want %q", in, got, want)
		}
	}
}
