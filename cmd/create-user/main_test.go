package main

import (
	"bufio"
	"strings"
	"testing"
)

func TestValidateUserInput(t *testing.T) {
	cases := []struct {
		name    string
		in      newUser
		wantErr bool
	}{
		{"valid", newUser{"runner1", "runner@example.com", "s3cretpass"}, false},
		{"missing username", newUser{"  ", "runner@example.com", "s3cretpass"}, true},
		{"missing email", newUser{"runner1", "", "s3cretpass"}, true},
		{"missing password", newUser{"runner1", "runner@example.com", ""}, true},
		{"space in username", newUser{"long runner", "runner@example.com", "s3cretpass"}, true},
		{"email without at", newUser{"runner1", "runner.example.com", "s3cretpass"}, true},
		{"email with two ats", newUser{"runner1", "a@b@example.com", "s3cretpass"}, true},
		{"email ending in at", newUser{"runner1", "runner@", "s3cretpass"}, true},
		{"short password", newUser{"runner1", "runner@example.com", "short"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validateUserInput(tc.in)
			if (err != nil) != tc.wantErr {
				t.Errorf("validateUserInput(%+v) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
		})
	}
}

func TestValidateUserInput_Trims(t *testing.T) {
	got, err := validateUserInput(newUser{" runner1 ", " runner@example.com\t", " pass with spaces "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Username != "runner1" || got.Email != "runner@example.com" {
		t.Errorf("fields not trimmed: %+v", got)
	}
	if got.Password != " pass with spaces " {
		t.Errorf("password must be kept verbatim, got %q", got.Password)
	}
}

func TestPrompt(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("alice\r\n  secret \n"))
	if got := prompt(reader, ""); got != "alice" {
		t.Errorf("first prompt = %q", got)
	}
	if got := prompt(reader, ""); got != "  secret " {
		t.Errorf("second prompt = %q", got)
	}
}
