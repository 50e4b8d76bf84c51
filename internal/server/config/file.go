package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/karmaboard/internal/flagx"
	"github.com/dmitrijs2005/karmaboard/internal/timex"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// both strings such as "30s" and integer nanoseconds. Only keys present in
// the file override earlier values.
type FileConfig struct {
	ListenAddr          string          `json:"listen_addr" yaml:"listen_addr"`
	DatabaseDSN         string          `json:"database_dsn" yaml:"database_dsn"`
	MulearnUser         string          `json:"mulearn_user" yaml:"mulearn_user"`
	MulearnPassword     string          `json:"mulearn_password" yaml:"mulearn_password"`
	MulearnBaseURL      string          `json:"mulearn_base_url" yaml:"mulearn_base_url"`
	TokenPath           string          `json:"token_path" yaml:"token_path"`
	Delimiter           string          `json:"delimiter" yaml:"delimiter"`
	HTTPTimeout         *timex.Duration `json:"http_timeout" yaml:"http_timeout"`
	SheetID             string          `json:"sheet_id" yaml:"sheet_id"`
	SheetGID            string          `json:"sheet_gid" yaml:"sheet_gid"`
	ProjectionCols      string          `json:"projection_cols" yaml:"projection_cols"`
	LeaderboardSource   string          `json:"leaderboard_source" yaml:"leaderboard_source"`
	SprintStart         string          `json:"sprint_start" yaml:"sprint_start"`
	SyncToken           string          `json:"sync_token" yaml:"sync_token"`
	Atomic              *bool           `json:"atomic" yaml:"atomic"`
	AWSRegion           string          `json:"aws_region" yaml:"aws_region"`
	ArchiveBucket       string          `json:"archive_bucket" yaml:"archive_bucket"`
	ArchiveEndpoint     string          `json:"archive_endpoint" yaml:"archive_endpoint"`
	ArchiveAccessKey    string          `json:"archive_access_key" yaml:"archive_access_key"`
	ArchiveSecretKey    string          `json:"archive_secret_key" yaml:"archive_secret_key"`
	CredentialsSecretID string          `json:"credentials_secret_id" yaml:"credentials_secret_id"`
	LogLevel            string          `json:"log_level" yaml:"log_level"`
	LogFormat           string          `json:"log_format" yaml:"log_format"`
}

// parseFile loads the file named by -c or -config, if any, into config.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
// An unreadable or invalid file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(c *Config) {
	set(&c.ListenAddr, fc.ListenAddr)
	set(&c.DatabaseDSN, fc.DatabaseDSN)
	set(&c.MulearnUser, fc.MulearnUser)
	set(&c.MulearnPassword, fc.MulearnPassword)
	set(&c.MulearnBaseURL, fc.MulearnBaseURL)
	set(&c.TokenPath, fc.TokenPath)
	set(&c.Delimiter, fc.Delimiter)
	set(&c.SheetID, fc.SheetID)
	set(&c.SheetGID, fc.SheetGID)
	set(&c.ProjectionCols, fc.ProjectionCols)
	set(&c.LeaderboardSource, fc.LeaderboardSource)
	set(&c.SprintStart, fc.SprintStart)
	set(&c.SyncToken, fc.SyncToken)
	set(&c.AWSRegion, fc.AWSRegion)
	set(&c.ArchiveBucket, fc.ArchiveBucket)
	set(&c.ArchiveEndpoint, fc.ArchiveEndpoint)
	set(&c.ArchiveAccessKey, fc.ArchiveAccessKey)
	set(&c.ArchiveSecretKey, fc.ArchiveSecretKey)
	set(&c.CredentialsSecretID, fc.CredentialsSecretID)
	set(&c.LogLevel, fc.LogLevel)
	set(&c.LogFormat, fc.LogFormat)

	if fc.HTTPTimeout != nil {
		c.HTTPTimeout = fc.HTTPTimeout.Duration
	}
	if fc.Atomic != nil {
		c.Atomic = *fc.Atomic
	}
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
