package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/assetpipe/core"
	"github.com/gaurav-prasanna/assetpipe/core/logging"
)

// Viper keys. They match the YAML names so a config file can set any of them.
const (
	KeyConfigFile      = "config"
	KeyURLEndpoint     = "url_endpoint"
	KeyImagesPath      = "images_path"
	KeyPublishDir      = "publish_dir"
	KeyHost            = "host"
	KeyTransformation  = "transformation"
	KeyConcurrency     = "concurrency"
	KeyRedirectsFormat = "redirects_format"
	KeyDryRun          = "dry_run"
	KeyReport          = "report"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyLogFile         = "log.file"
	KeyLogMaxSize      = "log.max_size_mb"
	KeyLogMaxBackups   = "log.max_backups"
	KeyLogNoColor      = "log.no_color"

	keyEnvURLEndpoint    = "platform.imagekit_url_endpoint"
	keyEnvURL            = "platform.url"
	keyEnvContext        = "platform.context"
	keyEnvDeployPrimeURL = "platform.deploy_prime_url"
)

// EnvPrefix prefixes every assetpipe environment variable.
const EnvPrefix = "ASSETPIPE"

// flagKeys maps command-line flag names to viper keys.
var flagKeys = map[string]string{
	"config":           KeyConfigFile,
	"url-endpoint":     KeyURLEndpoint,
	"images-path":      KeyImagesPath,
	"publish-dir":      KeyPublishDir,
	"host":             KeyHost,
	"transformation":   KeyTransformation,
	"concurrency":      KeyConcurrency,
	"redirects-format": KeyRedirectsFormat,
	"dry-run":          KeyDryRun,
	"report":           KeyReport,
	"log-level":        KeyLogLevel,
	"log-format":       KeyLogFormat,
	"log-file":         KeyLogFile,
	"no-color":         KeyLogNoColor,
}

// RegisterFlags adds the assetpipe flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()

	fs.StringP("config", "c", "", "Config file path (YAML)")
	fs.String("url-endpoint", "", "ImageKit URL endpoint (env IMAGEKIT_URL_ENDPOINT takes precedence)")
	fs.StringSlice("images-path", []string{DefaultAssetDir}, "Asset directories below the publish directory")
	fs.StringP("publish-dir", "d", d.PublishDir, "Published site directory")
	fs.String("host", "", "Origin host URL (defaults to URL or DEPLOY_PRIME_URL)")
	fs.String("transformation", d.Transformation, "CDN transformation token")
	fs.IntP("concurrency", "j", d.Concurrency, "Documents rewritten in parallel")
	fs.String("redirects-format", d.RedirectsFormat, "Routing table format: netlify, json, yaml")
	fs.Bool("dry-run", false, "Compute everything but write nothing")
	fs.String("report", "", "Write the error report as JSON to this file")
	fs.StringP("log-level", "l", d.Log.Level, "Log level: trace, debug, info, warn, error")
	fs.String("log-format", d.Log.Format, "Log format: console, json")
	fs.String("log-file", "", "Also write JSON logs to this file")
	fs.Bool("no-color", false, "Disable colored console logs")
}

// Bind wires flags, environment variables and defaults into v. Flags that
// fs does not define are skipped.
func Bind(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	envs := map[string][]string{
		KeyPublishDir:        {EnvPrefix + "_PUBLISH_DIR", "PUBLISH_DIR"},
		keyEnvURLEndpoint:    {"IMAGEKIT_URL_ENDPOINT"},
		keyEnvURL:            {"URL"},
		keyEnvContext:        {"CONTEXT"},
		keyEnvDeployPrimeURL: {"DEPLOY_PRIME_URL"},
	}
	for key, names := range envs {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	setDefaults(v)
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyImagesPath, DefaultAssetDir)
	v.SetDefault(KeyPublishDir, d.PublishDir)
	v.SetDefault(KeyTransformation, core.DefaultTransformation)
	v.SetDefault(KeyConcurrency, d.Concurrency)
	v.SetDefault(KeyRedirectsFormat, d.RedirectsFormat)

	ld := logging.DefaultConfig()
	v.SetDefault(KeyLogLevel, ld.Level)
	v.SetDefault(KeyLogFormat, ld.Format)
	v.SetDefault(KeyLogMaxSize, ld.MaxSizeMB)
	v.SetDefault(KeyLogMaxBackups, ld.MaxBackups)
}

// ReadFile merges the config file named by the "config" key into v, if one
// is set. Flags and environment variables still take precedence.
func ReadFile(v *viper.Viper) error {
	path := v.GetString(KeyConfigFile)
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// Load binds fs into a fresh viper instance, reads the optional config
// file and returns the validated settings.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if err := Bind(v, fs); err != nil {
		return nil, err
	}
	if err := ReadFile(v); err != nil {
		return nil, err
	}
	return FromViper(v)
}
