package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/domca/internal/flagx"
)

// Flags handled by parseFlags:
//
//	-d string   Postgres DSN
//	-s string   session token signing key
//	-v int      session validity, days
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (text, json)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-t int      avatar upload URL lifetime, minutes
var configFlags = []string{"-d", "-s", "-v", "-l", "-f", "-u", "-p", "-b", "-g", "-e", "-t"}

func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.IntVar(&cfg.SessionValidityDays, "v", cfg.SessionValidityDays, "session validity (in days)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	ttl := fs.Int("t", int(cfg.AvatarUploadTTL.Minutes()), "avatar upload URL lifetime (in minutes)")

	if err := fs.Parse(flagx.FilterArgs(args, configFlags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.AvatarUploadTTL = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
