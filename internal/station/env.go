package station

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names read by EnvProvider.
const (
	EnvStationUUID = "DROVA_STATION_UUID"
	EnvAuthToken   = "DROVA_AUTH_TOKEN"
)

// EnvProvider reads the station from the environment. Files listed in
// DotEnv are loaded first; variables already set take precedence and
// missing files are ignored.
type EnvProvider struct {
	DotEnv []string
	Lookup func(string) (string, bool) // defaults to os.LookupEnv
}

// NewEnvProvider returns a provider that loads ./.env before reading.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{DotEnv: []string{".env"}}
}

// Station implements Provider.
func (p *EnvProvider) Station(context.Context) (Info, error) {
	for _, path := range p.DotEnv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Info{}, &CredentialsError{Source: "env", Key: path, Err: err}
		}
	}
	lookup := p.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	id, _ := lookup(EnvStationUUID)
	token, _ := lookup(EnvAuthToken)
	return validate("env", EnvStationUUID, EnvAuthToken, Info{UUID: id, Token: token})
}
