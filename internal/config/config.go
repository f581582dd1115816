// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles and validates the credentials the pipeline needs.
// Keys come from the environment (EXA_API_KEY, CEREBRAS_API_KEY), from viper
// config, or from key files in a .secrets/ directory, in that order of
// precedence. Placeholder values from a template .env are rejected the same
// way as missing keys.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/deepsearch/internal/secrets"
)

// Secret file and viper key names for the two credentials.
const (
	ExaKeyName      = "exa-api-key"
	CerebrasKeyName = "cerebras-api-key"
)

// Placeholder values shipped in the template .env. A credential equal to its
// placeholder is treated as not configured.
const (
	exaPlaceholder      = "your-exa-api-key"
	cerebrasPlaceholder = "your-cerebras-api-key"
)

// Error reports a missing or placeholder credential. It is fatal at
// construction time; no network capability is created until Validate passes.
type Error struct {
	Key string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s is not configured: set the environment variable or add a %s file under .secrets/", e.Key, e.Key)
}

// Credentials holds the two provider keys the pipeline depends on.
type Credentials struct {
	ExaAPIKey      string
	CerebrasAPIKey string
}

// Validate returns an *Error for the first credential that is missing or
// still set to its placeholder value.
func (c Credentials) Validate() error {
	if c.ExaAPIKey == "" || c.ExaAPIKey == exaPlaceholder {
		return &Error{Key: "EXA_API_KEY"}
	}
	if c.CerebrasAPIKey == "" || c.CerebrasAPIKey == cerebrasPlaceholder {
		return &Error{Key: "CEREBRAS_API_KEY"}
	}
	return nil
}

// Load assembles credentials from viper (environment and config file) with a
// .secrets/ directory fallback. It does not validate; call Validate before
// constructing network capabilities.
func Load(secretsDir string) (Credentials, error) {
	viper.BindEnv(ExaKeyName, "EXA_API_KEY")
	viper.BindEnv(CerebrasKeyName, "CEREBRAS_API_KEY")

	loaded, err := secrets.Load(secretsDir)
	if err != nil {
		return Credentials{}, err
	}

	creds := Credentials{
		ExaAPIKey:      viper.GetString(ExaKeyName),
		CerebrasAPIKey: viper.GetString(CerebrasKeyName),
	}
	if creds.ExaAPIKey == "" {
		creds.ExaAPIKey = loaded[ExaKeyName]
	}
	if creds.CerebrasAPIKey == "" {
		creds.CerebrasAPIKey = loaded[CerebrasKeyName]
	}
	return creds, nil
}
