// Package config loads assetpipe settings from flags, environment variables
// and an optional YAML file through viper, validates them and resolves the
// values every build phase needs (CDN endpoint, origin host, site root).
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/assetpipe/core"
	"github.com/gaurav-prasanna/assetpipe/core/asseturl"
	"github.com/gaurav-prasanna/assetpipe/core/logging"
	"github.com/gaurav-prasanna/assetpipe/core/normalize"
)

// Redirect table formats.
const (
	FormatNetlify = "netlify"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
)

// Build contexts in which the deploy URL replaces the production URL.
const (
	ContextBranchDeploy  = "branch-deploy"
	ContextDeployPreview = "deploy-preview"
)

// Config is the full set of assetpipe settings.
type Config struct {
	URLEndpoint     string         `yaml:"url_endpoint"`
	ImagesPath      AssetDirs      `yaml:"images_path"`
	PublishDir      string         `yaml:"publish_dir" validate:"required"`
	Host            string         `yaml:"host,omitempty"`
	Transformation  string         `yaml:"transformation" validate:"required"`
	Concurrency     int            `yaml:"concurrency" validate:"min=1,max=1024"`
	RedirectsFormat string         `yaml:"redirects_format" validate:"oneof=netlify json yaml"`
	DryRun          bool           `yaml:"dry_run"`
	Report          string         `yaml:"report,omitempty"`
	Log             logging.Config `yaml:"log"`

	// Env carries the deploy environment. It is never read from the file.
	Env Environment `yaml:"-"`
}

// Environment holds the variables the hosting platform sets for a build.
type Environment struct {
	URLEndpoint    string
	URL            string
	Context        string
	DeployPrimeURL string
}

// Default returns a Config with every default applied.
func Default() Config {
	return Config{
		ImagesPath:      SingleDir(DefaultAssetDir),
		PublishDir:      ".",
		Transformation:  core.DefaultTransformation,
		Concurrency:     runtime.NumCPU(),
		RedirectsFormat: FormatNetlify,
		Log:             logging.DefaultConfig(),
	}
}

// FromViper decodes and validates the settings held by v. Keys follow
// the names used by Bind.
func FromViper(v *viper.Viper) (*Config, error) {
	dirs, err := ParseAssetDirs(v.Get(KeyImagesPath))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		URLEndpoint:     v.GetString(KeyURLEndpoint),
		ImagesPath:      dirs,
		PublishDir:      v.GetString(KeyPublishDir),
		Host:            v.GetString(KeyHost),
		Transformation:  strings.TrimSpace(v.GetString(KeyTransformation)),
		Concurrency:     v.GetInt(KeyConcurrency),
		RedirectsFormat: strings.ToLower(v.GetString(KeyRedirectsFormat)),
		DryRun:          v.GetBool(KeyDryRun),
		Report:          v.GetString(KeyReport),
		Log: logging.Config{
			Level:      strings.ToLower(v.GetString(KeyLogLevel)),
			Format:     strings.ToLower(v.GetString(KeyLogFormat)),
			File:       v.GetString(KeyLogFile),
			MaxSizeMB:  v.GetInt(KeyLogMaxSize),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
			NoColor:    v.GetBool(KeyLogNoColor),
		},
		Env: Environment{
			URLEndpoint:    v.GetString(keyEnvURLEndpoint),
			URL:            v.GetString(keyEnvURL),
			Context:        v.GetString(keyEnvContext),
			DeployPrimeURL: v.GetString(keyEnvDeployPrimeURL),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations. Endpoint and host are
// checked separately by ResolveEndpoint and ResolveHost because their
// failures carry user-facing messages.
func Validate(cfg *Config) error {
	validate := validator.New()

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := fmt.Sprintf("'%s' failed rule '%s'", e.Namespace(), e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// ResolveEndpoint picks the CDN endpoint: the environment value wins over
// the configured input. A trailing slash is dropped.
func ResolveEndpoint(envValue, input string) (string, error) {
	raw := strings.TrimSpace(envValue)
	if raw == "" {
		raw = strings.TrimSpace(input)
	}
	raw = normalize.TrimTrailingSlash(raw)

	if raw == "" {
		return "", core.NewEndpointError("")
	}
	if err := asseturl.ValidateAbsolute(raw); err != nil {
		return "", core.NewEndpointError(raw)
	}
	return raw, nil
}

// ResolveHost picks the origin host. An explicit value wins; otherwise the
// production URL is used, replaced by the deploy URL for branch deploys
// and deploy previews.
func ResolveHost(explicit string, env Environment) (string, error) {
	host := strings.TrimSpace(explicit)
	if host == "" {
		host = strings.TrimSpace(env.URL)
		if env.Context == ContextBranchDeploy || env.Context == ContextDeployPreview {
			host = strings.TrimSpace(env.DeployPrimeURL)
		}
	}
	host = normalize.TrimTrailingSlash(host)

	if host == "" {
		return "", core.NewHostError()
	}
	if err := asseturl.ValidateAbsolute(host); err != nil {
		return "", &core.ConfigError{
			Field:   "host",
			Message: fmt.Sprintf("Invalid host. Host: %s", host),
			Err:     core.ErrHostUnknown,
		}
	}
	return host, nil
}

// ResolveHost resolves the origin host for cfg.
func (c *Config) ResolveHost() (string, error) {
	return ResolveHost(c.Host, c.Env)
}

// ResolveEndpoint resolves the CDN endpoint for cfg.
func (c *Config) ResolveEndpoint() (string, error) {
	return ResolveEndpoint(c.Env.URLEndpoint, c.URLEndpoint)
}

// RewriteConfig resolves host and endpoint, in that order, and returns the
// values the URL builder works with. The site root is the absolute publish
// directory.
func (c *Config) RewriteConfig() (core.RewriteConfig, error) {
	host, err := c.ResolveHost()
	if err != nil {
		return core.RewriteConfig{}, err
	}
	endpoint, err := c.ResolveEndpoint()
	if err != nil {
		return core.RewriteConfig{}, err
	}
	root, err := filepath.Abs(c.PublishDir)
	if err != nil {
		return core.RewriteConfig{}, fmt.Errorf("resolving publish directory: %w", err)
	}

	transformation := c.Transformation
	if transformation == "" {
		transformation = core.DefaultTransformation
	}

	return core.RewriteConfig{
		CDNEndpoint:    endpoint,
		Transformation: transformation,
		OriginHost:     host,
		SiteRootDir:    root,
	}, nil
}

// AssetDirList returns the normalized asset directories.
func (c *Config) AssetDirList() []string {
	return c.ImagesPath.List()
}

// YAML renders the settings as a config file would hold them.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
