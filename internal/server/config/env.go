package config

import (
	"github.com/spf13/viper"
)

// envBindings maps config keys to environment variables. When a key lists
// several variables the first non-empty one wins.
var envBindings = map[string][]string{
	"listen_addr":           {"LISTEN_ADDR"},
	"database_dsn":          {"DATABASE_DSN", "SUPABASE_DB_URL"},
	"mulearn_user":          {"MULEARN_USER", "username"},
	"mulearn_password":      {"MULEARN_PASS", "password"},
	"mulearn_base_url":      {"MULEARN_BASE_URL"},
	"token_path":            {"MULEARN_TOKEN_PATH"},
	"delimiter":             {"CSV_DELIMITER"},
	"http_timeout":          {"HTTP_TIMEOUT"},
	"sheet_id":              {"GSHEET_ID"},
	"sheet_gid":             {"GSHEET_GID"},
	"projection_cols":       {"PROJECTION_COLS"},
	"leaderboard_source":    {"LEADERBOARD_SOURCE"},
	"sprint_start":          {"SPRINT_START"},
	"sync_token":            {"SYNC_TOKEN"},
	"atomic":                {"SYNC_ATOMIC"},
	"aws_region":            {"AWS_REGION"},
	"archive_bucket":        {"ARCHIVE_BUCKET"},
	"archive_endpoint":      {"ARCHIVE_ENDPOINT"},
	"archive_access_key":    {"ARCHIVE_ACCESS_KEY"},
	"archive_secret_key":    {"ARCHIVE_SECRET_KEY"},
	"credentials_secret_id": {"CREDENTIALS_SECRET_ID"},
	"log_level":             {"LOG_LEVEL"},
	"log_format":            {"LOG_FORMAT"},
}

// parseEnv overlays values found in the environment. Unset variables leave
// the current value alone.
func parseEnv(config *Config) {
	v := viper.New()
	for key, names := range envBindings {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	str := map[string]*string{
		"listen_addr":           &config.ListenAddr,
		"database_dsn":          &config.DatabaseDSN,
		"mulearn_user":          &config.MulearnUser,
		"mulearn_password":      &config.MulearnPassword,
		"mulearn_base_url":      &config.MulearnBaseURL,
		"token_path":            &config.TokenPath,
		"delimiter":             &config.Delimiter,
		"sheet_id":              &config.SheetID,
		"sheet_gid":             &config.SheetGID,
		"projection_cols":       &config.ProjectionCols,
		"leaderboard_source":    &config.LeaderboardSource,
		"sprint_start":          &config.SprintStart,
		"sync_token":            &config.SyncToken,
		"aws_region":            &config.AWSRegion,
		"archive_bucket":        &config.ArchiveBucket,
		"archive_endpoint":      &config.ArchiveEndpoint,
		"archive_access_key":    &config.ArchiveAccessKey,
		"archive_secret_key":    &config.ArchiveSecretKey,
		"credentials_secret_id": &config.CredentialsSecretID,
		"log_level":             &config.LogLevel,
		"log_format":            &config.LogFormat,
	}
	for key, dst := range str {
		set(dst, v.GetString(key))
	}

	if v.IsSet("http_timeout") {
		config.HTTPTimeout = v.GetDuration("http_timeout")
	}
	if v.IsSet("atomic") {
		config.Atomic = v.GetBool("atomic")
	}
}
