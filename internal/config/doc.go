// Package config loads runtime configuration from an optional YAML file
// and DOCMENTOR_* environment variables, and builds the process logger.
package config
