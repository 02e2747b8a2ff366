package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teemow/azure-devops-mcp/internal/auth"
	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
)

// Setting keys, as used in config files.
const (
	KeyOrganizationURL = "organization_url"
	KeyAuthMethod      = "auth_method"
	KeyStaticToken     = "pat"
	KeyDefaultProject  = "default_project"
	KeyAPIVersion      = "api_version"
)

// Flag names registered by AddFlags.
const (
	FlagConfig          = "config"
	FlagOrganizationURL = "org-url"
	FlagAuthMethod      = "auth-method"
	FlagDefaultProject  = "default-project"
	FlagAPIVersion      = "api-version"
)

var envVars = map[string]string{
	KeyOrganizationURL: "AZURE_DEVOPS_ORG_URL",
	KeyAuthMethod:      "AZURE_DEVOPS_AUTH_METHOD",
	KeyStaticToken:     "AZURE_DEVOPS_PAT",
	KeyDefaultProject:  "AZURE_DEVOPS_DEFAULT_PROJECT",
	KeyAPIVersion:      "AZURE_DEVOPS_API_VERSION",
}

// The token has no flag so it never shows up in process listings.
var flagKeys = map[string]string{
	FlagOrganizationURL: KeyOrganizationURL,
	FlagAuthMethod:      KeyAuthMethod,
	FlagDefaultProject:  KeyDefaultProject,
	FlagAPIVersion:      KeyAPIVersion,
}

var apiVersionPattern = regexp.MustCompile(`^\d+\.\d+(-preview(\.\d+)?)?$`)

// Config holds the settings of one server instance.
type Config struct {
	OrganizationURL string
	AuthMethod      auth.Method
	StaticToken     string
	DefaultProject  string
	APIVersion      string
}

// AddFlags registers the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to a config file (YAML, JSON or TOML)")
	fs.String(FlagOrganizationURL, "", "Azure DevOps organization URL (env AZURE_DEVOPS_ORG_URL)")
	fs.String(FlagAuthMethod, "", "Authentication method: static-token, service-identity or cli-identity (env AZURE_DEVOPS_AUTH_METHOD)")
	fs.String(FlagDefaultProject, "", "Project used when a tool call omits projectId (env AZURE_DEVOPS_DEFAULT_PROJECT)")
	fs.String(FlagAPIVersion, "", "Azure DevOps REST API version (env AZURE_DEVOPS_API_VERSION)")
}

// Load reads the configuration from fs, the environment and the config file
// named by --config, then validates it. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyAuthMethod, string(auth.MethodStaticToken))
	v.SetDefault(KeyAPIVersion, azuredevops.DefaultAPIVersion)

	for key, env := range envVars {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
			}
		}

		if flag := fs.Lookup(FlagConfig); flag != nil && flag.Value.String() != "" {
			v.SetConfigFile(flag.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	method, err := auth.ParseMethod(v.GetString(KeyAuthMethod))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OrganizationURL: strings.TrimSpace(v.GetString(KeyOrganizationURL)),
		AuthMethod:      method,
		StaticToken:     v.GetString(KeyStaticToken),
		DefaultProject:  strings.TrimSpace(v.GetString(KeyDefaultProject)),
		APIVersion:      strings.TrimSpace(v.GetString(KeyAPIVersion)),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that are present. Missing credentials are
// reported when the connection is established.
func (c *Config) Validate() error {
	if c.OrganizationURL != "" {
		u, err := url.Parse(c.OrganizationURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("organization URL %q is not an absolute URL", c.OrganizationURL)
		}
		if u.Scheme != "https" && u.Scheme != "http" {
			return fmt.Errorf("organization URL %q must use http or https", c.OrganizationURL)
		}
	}

	if _, err := auth.ParseMethod(c.AuthMethod.String()); err != nil {
		return err
	}

	if !apiVersionPattern.MatchString(c.APIVersion) {
		return fmt.Errorf("invalid API version %q, expected e.g. 7.1 or 7.1-preview.1", c.APIVersion)
	}
	return nil
}

// Auth returns the credential settings for the connection manager.
func (c *Config) Auth() auth.Config {
	return auth.Config{
		Method:          c.AuthMethod,
		OrganizationURL: c.OrganizationURL,
		StaticToken:     c.StaticToken,
	}
}
