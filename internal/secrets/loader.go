package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages.
	Name string
	// Value is an inline secret from configuration or the environment.
	Value string
	// File points to a file holding the secret. It takes precedence over Value.
	File string
}

// Load resolves the secret described by src. The result is trimmed. An error
// is returned when neither File nor Value yield a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}

// Optional is Load for secrets that may legitimately be absent. It returns ""
// without error when nothing is configured, but still fails on unreadable files.
func Optional(src Source) (string, error) {
	if strings.TrimSpace(src.File) == "" && strings.TrimSpace(src.Value) == "" {
		return "", nil
	}
	return Load(src)
}
