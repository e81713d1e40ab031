package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// LoadFromEnv reads the process environment, falling back to values from the
// dotenv file named by ENV_FILE (".env" by default) when it exists.
func LoadFromEnv() (Config, error) {
	env := FromEnviron()
	path := defaultEnvFile
	if raw, ok := env.Lookup("ENV_FILE"); ok && strings.TrimSpace(raw) != "" {
		path = strings.TrimSpace(raw)
	}
	fileEnv, err := readDotEnv(path)
	if err != nil {
		return Config{}, err
	}
	return Load(Layered(env, fileEnv))
}

func readDotEnv(path string) (EnvMap, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return EnvMap{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return EnvMap(values), nil
}

type layered []EnvSource

// Layered returns a source that answers from the first layer defining a key.
func Layered(sources ...EnvSource) EnvSource {
	return layered(sources)
}

func (l layered) Lookup(key string) (string, bool) {
	for _, source := range l {
		if source == nil {
			continue
		}
		if value, ok := source.Lookup(key); ok {
			return value, true
		}
	}
	return "", false
}
