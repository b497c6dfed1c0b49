package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// sampleConfigHeader is prepended to generated configuration files.
const sampleConfigHeader = `# Helikon Configuration File
#
# This file was generated by 'helikon init'.
# All values shown are defaults; uncomment and edit as needed.
#
# Environment variables with the HELIKON_ prefix override file values,
# e.g. HELIKON_LOGGING_LEVEL=DEBUG or HELIKON_JWT_SECRET=<secret>.

`

// InitConfig creates a sample configuration file at the default location.
//
// Returns the path of the created file. Fails if the file already exists
// unless force is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath creates a sample configuration file at the given path.
//
// The generated file contains all default values plus a freshly generated
// random JWT secret suitable for development use. Fails if the file already
// exists unless force is true.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
		}
	}

	cfg := GetDefaultConfig()

	// Generate a random development JWT secret so the server works out of
	// the box. Production deployments should set HELIKON_JWT_SECRET instead.
	secret, err := generateJWTSecret()
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	cfg.API.JWT.Secret = secret

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file contains the JWT secret
	content := append([]byte(sampleConfigHeader), data...)
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateJWTSecret returns a 64-character hex string (32 bytes of entropy).
func generateJWTSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
