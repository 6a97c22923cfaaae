package core

import (
	"errors"
	"fmt"
)

// Messages surfaced to the user when configuration is unusable.
const (
	MsgEndpointRequired = "Imagekit url endpoint is required. Please provide imagekitUrlEndpoint input or use the environment variable IMAGEKIT_URL_ENDPOINT"
	MsgInvalidAssetPath = "Invalid asset path. Please make sure your imagesPath is defined."
	MsgHostUnknown      = "Cannot determine Netlify host."
	MsgHostCLISupport   = "Note: The Netlify CLI does not currently support the ability to determine the host locally, try deploying on Netlify."
)

// Sentinel errors for the configuration failures that stop a build phase.
var (
	ErrEndpointRequired = errors.New("url endpoint required")
	ErrInvalidEndpoint  = errors.New("invalid url endpoint")
	ErrHostUnknown      = errors.New("host unknown")
	ErrNoAssets         = errors.New("no assets found")
)

// ConfigError is a fatal configuration problem. Message is the text shown
// to the user; Err is one of the sentinels above.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewEndpointError reports a missing or malformed CDN endpoint.
func NewEndpointError(value string) *ConfigError {
	if value == "" {
		return &ConfigError{Field: "url-endpoint", Message: MsgEndpointRequired, Err: ErrEndpointRequired}
	}
	return &ConfigError{
		Field:   "url-endpoint",
		Message: fmt.Sprintf("Invalid URL endpoint. URL Endpoint: %s", value),
		Err:     ErrInvalidEndpoint,
	}
}

// NewHostError reports that the origin host could not be determined.
func NewHostError() *ConfigError {
	return &ConfigError{Field: "host", Message: MsgHostUnknown, Err: ErrHostUnknown}
}

// NewAssetPathError reports that the configured asset directories are empty.
func NewAssetPathError() *ConfigError {
	return &ConfigError{Field: "images-path", Message: MsgInvalidAssetPath, Err: ErrNoAssets}
}
