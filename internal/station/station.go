// Package station resolves the identity and credential of the kiosk station.
//
// The launcher treats the result as opaque: a station UUID that scopes the
// catalog endpoints and an auth token sent alongside station-scoped calls.
// On Windows both come from the Esme service registry keys; elsewhere they
// are read from the environment, optionally seeded from .env files.
package station

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Info identifies a station. The token is a secret and is redacted from
// every textual rendering of Info.
type Info struct {
	UUID  string
	Token string
}

// String implements fmt.Stringer without the token.
func (i Info) String() string {
	return fmt.Sprintf("station %s (token %d bytes)", i.UUID, len(i.Token))
}

// LogValue implements slog.LogValuer without the token.
func (i Info) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("uuid", i.UUID),
		slog.Int("token_len", len(i.Token)),
	)
}

// Provider supplies the station Info.
type Provider interface {
	Station(ctx context.Context) (Info, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Info, error)

// Station implements Provider.
func (f ProviderFunc) Station(ctx context.Context) (Info, error) { return f(ctx) }

// Static returns a provider that always yields info.
func Static(info Info) Provider {
	return ProviderFunc(func(context.Context) (Info, error) { return info, nil })
}

// CredentialsError reports why station credentials could not be resolved.
type CredentialsError struct {
	Source string // "env" or "registry"
	Key    string
	Err    error
}

func (e *CredentialsError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s is not set", e.Source, e.Key)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Key, e.Err)
}

func (e *CredentialsError) Unwrap() error { return e.Err }

// validate checks that both values are present. The station id is passed
// on as-is; one that does not look like a UUID is only logged.
func validate(source, uuidKey, tokenKey string, info Info) (Info, error) {
	info.UUID = strings.TrimSpace(info.UUID)
	info.Token = strings.TrimSpace(info.Token)
	if info.UUID == "" {
		return Info{}, &CredentialsError{Source: source, Key: uuidKey}
	}
	if info.Token == "" {
		return Info{}, &CredentialsError{Source: source, Key: tokenKey}
	}
	if _, err := uuid.Parse(info.UUID); err != nil {
		slog.Warn("station id is not a uuid", "source", source, "key", uuidKey, "station", info.UUID, "error", err)
	}
	return info, nil
}
