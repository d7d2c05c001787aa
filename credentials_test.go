package client

import (
	"errors"
	"strings"
	"testing"
)

func TestCredentialsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		creds       Credentials
		wantMissing []string
	}{
		{name: "token only", creds: Credentials{Token: "t"}},
		{name: "password grant", creds: passwordCredentials()},
		{name: "both", creds: Credentials{Token: "t", Username: "u"}},
		{
			name:        "empty",
			creds:       Credentials{},
			wantMissing: []string{"Username", "Password", "ClientID", "ClientSecret"},
		},
		{
			name:        "missing secret",
			creds:       Credentials{Username: "u", Password: "p", ClientID: "c"},
			wantMissing: []string{"ClientSecret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.creds.Validate()

			if len(tt.wantMissing) == 0 {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}

			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
			for _, field := range tt.wantMissing {
				if !strings.Contains(err.Error(), field) {
					t.Errorf("expected %q to name %s", err.Error(), field)
				}
			}
		})
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("TESTBITLY_USERNAME", testUsername)
	t.Setenv("TESTBITLY_PASSWORD", testPassword)
	t.Setenv("TESTBITLY_CLIENT_ID", testClientID)
	t.Setenv("TESTBITLY_CLIENT_SECRET", testClientSecret)
	t.Setenv("OTHER_TOKEN", "ignored")

	creds, err := CredentialsFromEnv("TESTBITLY_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if creds != passwordCredentials() {
		t.Errorf("expected %+v, got %+v", passwordCredentials(), creds)
	}

	if err := creds.Validate(); err != nil {
		t.Errorf("expected valid credentials, got %v", err)
	}
}

func TestCredentialsFromEnv_DefaultPrefix(t *testing.T) {
	t.Setenv("BITLY_TOKEN", testStaticToken)

	creds, err := CredentialsFromEnv("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if creds.Token != testStaticToken {
		t.Errorf("expected token=%s, got %s", testStaticToken, creds.Token)
	}
}
