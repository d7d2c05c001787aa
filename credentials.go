package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the environment variable prefix used by
// [CredentialsFromEnv] when an empty prefix is given.
const DefaultEnvPrefix = "BITLY_"

var credentialsValidator = validator.New()

// Credentials authenticate a [Client]. Supply either Token alone, or all of
// Username, Password, ClientID and ClientSecret for the OAuth2 password grant.
// When both are present the token wins and no exchange is made.
type Credentials struct {
	Username     string `koanf:"username" validate:"required_without=Token"`
	Password     string `koanf:"password" validate:"required_without=Token"`
	ClientID     string `koanf:"client_id" validate:"required_without=Token"`
	ClientSecret string `koanf:"client_secret" validate:"required_without=Token"`
	Token        string `koanf:"token"`
}

// Validate reports an error wrapping [ErrMissingCredentials] that names the
// missing fields.
func (c Credentials) Validate() error {
	err := credentialsValidator.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	missing := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		missing = append(missing, fe.Field())
	}

	return fmt.Errorf("%w (missing %s)", ErrMissingCredentials, strings.Join(missing, ", "))
}

func (c Credentials) basicAuth() *BasicAuth {
	return &BasicAuth{Username: c.ClientID, Password: c.ClientSecret}
}

// CredentialsFromEnv reads credentials from <prefix>USERNAME, <prefix>PASSWORD,
// <prefix>CLIENT_ID, <prefix>CLIENT_SECRET and <prefix>TOKEN. The result is not
// validated; [New] does that.
func CredentialsFromEnv(prefix string) (Credentials, error) {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	k := koanf.New(".")

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: prefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, prefix)), value
		},
	}), nil); err != nil {
		return Credentials{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var creds Credentials
	if err := k.Unmarshal("", &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}

	return creds, nil
}
