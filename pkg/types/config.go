// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OfficeConfig holds settings for the office-suite runtime.
type OfficeConfig struct {
	// Binary overrides office-suite detection (e.g. "/usr/bin/soffice").
	// When empty, soffice and then libreoffice are looked up on PATH.
	Binary string `json:"binary,omitempty" yaml:"binary,omitempty" mapstructure:"binary"`

	// Timeout bounds a single office invocation. Zero means no timeout: the
	// call blocks until the subprocess exits.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ConvertConfig holds settings for CLI conversions.
type ConvertConfig struct {
	// DefaultName is the output base name used when no output path is given.
	DefaultName string `json:"default_name" yaml:"default_name" mapstructure:"default_name"`
}

// ServerConfig holds settings for the web upload form.
type ServerConfig struct {
	// ListenAddr is the address the server listens on (e.g. ":8080").
	ListenAddr string `json:"listen_addr" yaml:"listen_addr" mapstructure:"listen_addr"`

	// MaxUploadMB caps the request body size in megabytes (default 20).
	MaxUploadMB int `json:"max_upload_mb" yaml:"max_upload_mb" mapstructure:"max_upload_mb"`

	// WorkDir is the base directory for per-request workspaces. Empty means
	// the system temp directory.
	WorkDir string `json:"work_dir,omitempty" yaml:"work_dir,omitempty" mapstructure:"work_dir"`
}

// HistoryConfig holds settings for the conversion history log.
type HistoryConfig struct {
	// DB is the SQLite database path. Empty disables history.
	DB string `json:"db,omitempty" yaml:"db,omitempty" mapstructure:"db"`
}

// EnvironmentConfig holds settings for startup environment preparation.
type EnvironmentConfig struct {
	// InstallOffice opts in to installing LibreOffice through the host
	// package manager when no office binary is found.
	InstallOffice bool `json:"install_office" yaml:"install_office" mapstructure:"install_office"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Debug bool `json:"debug" yaml:"debug" mapstructure:"debug"`
}

// Config groups all settings.
type Config struct {
	Office      OfficeConfig      `json:"office" yaml:"office" mapstructure:"office"`
	Convert     ConvertConfig     `json:"convert" yaml:"convert" mapstructure:"convert"`
	Server      ServerConfig      `json:"server" yaml:"server" mapstructure:"server"`
	History     HistoryConfig     `json:"history" yaml:"history" mapstructure:"history"`
	Environment EnvironmentConfig `json:"environment" yaml:"environment" mapstructure:"environment"`
	Log         LogConfig         `json:"log" yaml:"log" mapstructure:"log"`
}
