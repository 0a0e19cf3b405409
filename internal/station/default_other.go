//go:build !windows

package station

// Default returns the environment provider outside Windows.
func Default() Provider {
	return NewEnvProvider()
}
