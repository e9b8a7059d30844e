package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the daemon's environment variables.
const envPrefix = "FUNDFAQ_"

// sections are the top-level config keys used to split environment variable
// names into key paths. The first matching section wins, so
// FUNDFAQ_GEMINI_API_KEY maps to gemini.api_key and FUNDFAQ_SERVER_PORT to
// server.port.
var sections = []string{
	"server", "logging", "database", "gemini", "vectorstore", "retrieval", "catalog",
}

// Load reads configuration with precedence (highest to lowest):
//
//  1. Environment variables (FUNDFAQ_GEMINI_API_KEY, FUNDFAQ_SERVER_PORT, ...)
//  2. YAML config file (configPath, skipped when empty or absent)
//  3. Defaults()
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
			}
		} else if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", transformEnvKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// transformEnvKey maps an environment variable name to a koanf key path.
// The section prefix becomes the first path element and the remainder is the
// field name, e.g. FUNDFAQ_RETRIEVAL_MATCH_THRESHOLD -> retrieval.match_threshold.
func transformEnvKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range sections {
		if strings.HasPrefix(s, section+"_") {
			return section + "." + strings.TrimPrefix(s, section+"_")
		}
	}
	return s
}
