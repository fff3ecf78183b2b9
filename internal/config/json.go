package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/domca/internal/flagx"
	"github.com/dmitrijs2005/domca/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// "15m" as well as integer nanoseconds. Absent keys keep their defaults.
type JsonConfig struct {
	DatabaseDSN         *string         `json:"database_dsn"`
	SecretKey           *string         `json:"secret_key"`
	SessionValidityDays *int            `json:"session_validity_days"`
	LogLevel            *string         `json:"log_level"`
	LogFormat           *string         `json:"log_format"`
	S3RootUser          *string         `json:"s3_root_user"`
	S3RootPassword      *string         `json:"s3_root_password"`
	S3Bucket            *string         `json:"s3_bucket"`
	S3Region            *string         `json:"s3_region"`
	S3BaseEndpoint      *string         `json:"s3_base_endpoint"`
	AvatarUploadTTL     *timex.Duration `json:"avatar_upload_ttl"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var c JsonConfig
	if err := json.Unmarshal(b, &c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIf(&cfg.DatabaseDSN, c.DatabaseDSN)
	setIf(&cfg.SecretKey, c.SecretKey)
	setIf(&cfg.SessionValidityDays, c.SessionValidityDays)
	setIf(&cfg.LogLevel, c.LogLevel)
	setIf(&cfg.LogFormat, c.LogFormat)
	setIf(&cfg.S3RootUser, c.S3RootUser)
	setIf(&cfg.S3RootPassword, c.S3RootPassword)
	setIf(&cfg.S3Bucket, c.S3Bucket)
	setIf(&cfg.S3Region, c.S3Region)
	setIf(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.AvatarUploadTTL != nil {
		cfg.AvatarUploadTTL = c.AvatarUploadTTL.Duration
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
