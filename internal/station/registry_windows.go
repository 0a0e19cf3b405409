//go:build windows

package station

import (
	"context"

	"golang.org/x/sys/windows/registry"
)

const (
	esmeKeyPath    = `SOFTWARE\ITKey\Esme`
	esmeServersKey = `SOFTWARE\ITKey\Esme\servers\`
	lastServerName = "last_server"
	authTokenName  = "auth_token"
)

// RegistryProvider reads the station written by the Esme service under
// HKLM\SOFTWARE\ITKey\Esme.
type RegistryProvider struct{}

// Station implements Provider.
func (RegistryProvider) Station(context.Context) (Info, error) {
	esme, err := registry.OpenKey(registry.LOCAL_MACHINE, esmeKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return Info{}, &CredentialsError{Source: "registry", Key: esmeKeyPath, Err: err}
	}
	defer esme.Close()

	id, _, err := esme.GetStringValue(lastServerName)
	if err != nil {
		return Info{}, &CredentialsError{Source: "registry", Key: esmeKeyPath + `\` + lastServerName, Err: err}
	}

	serverPath := esmeServersKey + id
	server, err := registry.OpenKey(registry.LOCAL_MACHINE, serverPath, registry.QUERY_VALUE)
	if err != nil {
		return Info{}, &CredentialsError{Source: "registry", Key: serverPath, Err: err}
	}
	defer server.Close()

	token, _, err := server.GetStringValue(authTokenName)
	if err != nil {
		return Info{}, &CredentialsError{Source: "registry", Key: serverPath + `\` + authTokenName, Err: err}
	}
	return validate("registry", lastServerName, authTokenName, Info{UUID: id, Token: token})
}

// Default returns the registry provider on Windows.
func Default() Provider {
	return RegistryProvider{}
}
