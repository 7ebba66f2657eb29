package whmcsmp

import (
	"strings"

	"github.com/networkteam/whmcsmp/marketplace"
)

// Default minimum compatible platform version when none is configured.
const defaultMinVersion = "7.10"

// Config is the resolved configuration of one pipeline run.
type Config struct {
	Login      string
	Password   string
	ProductID  string
	MinVersion string

	GitHubToken string
	GitHubRepo  string

	BaseURL         string
	Headless        bool
	KeepOpenOnError bool
	Debug           bool

	Timeouts marketplace.Timeouts
}

// ResolveConfig builds a Config from an environment-like map. It is a pure
// function: no process environment or other side channels are consulted, so
// callers (and tests) control the full input. Use EnvironMap to feed it the
// process environment.
func ResolveConfig(env map[string]string) Config {
	minVersion := env["WHMCSMP_MINVERSION"]
	if minVersion == "" {
		minVersion = defaultMinVersion
	}

	token := env["GH_TOKEN"]
	if token == "" {
		token = env["GITHUB_TOKEN"]
	}
	repo := env["GH_REPO"]
	if repo == "" {
		repo = env["GITHUB_REPO"]
	}

	return Config{
		Login:           env["WHMCSMP_LOGIN"],
		Password:        env["WHMCSMP_PASSWORD"],
		ProductID:       env["WHMCSMP_PRODUCTID"],
		MinVersion:      minVersion,
		GitHubToken:     token,
		GitHubRepo:      repo,
		BaseURL:         env["WHMCSMP_BASEURL"],
		Headless:        !isFalse(env["WHMCSMP_HEADLESS"]),
		KeepOpenOnError: isTrue(env["WHMCSMP_KEEP_OPEN"]),
		Debug:           isTrue(env["WHMCSMP_DEBUG"]),
		Timeouts:        marketplace.DefaultTimeouts(),
	}
}

// EnvironMap converts os.Environ() style "KEY=value" pairs into a map.
func EnvironMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		env[key] = value
	}
	return env
}

func (c Config) marketplaceConfig() marketplace.Config {
	return marketplace.Config{
		BaseURL:         c.BaseURL,
		Login:           c.Login,
		Password:        c.Password,
		ProductID:       c.ProductID,
		MinVersion:      c.MinVersion,
		Headless:        c.Headless,
		KeepOpenOnError: c.KeepOpenOnError,
		Timeouts:        c.Timeouts,
	}
}

func isTrue(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}

func isFalse(s string) bool {
	return s == "0" || strings.EqualFold(s, "false")
}
