// Package avatars hands out presigned S3 URLs for user avatar images. The
// images themselves never pass through domca; clients upload and download
// them directly against the S3-compatible bucket.
package avatars

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/domca/internal/common"
	"github.com/dmitrijs2005/domca/internal/config"
	"github.com/dmitrijs2005/domca/internal/ids"
	"github.com/google/uuid"
)

// Scheme is the URL scheme of stored avatar references.
const Scheme = "s3"

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	newObjectName = uuid.NewString
)

// Upload describes a presigned avatar upload.
type Upload struct {
	// Key is the object key inside the bucket.
	Key string
	// URL accepts a single PUT of the image until it expires.
	URL string
	// Reference is what gets stored as the user's avatar.
	Reference *url.URL
}

// Store presigns avatar requests against one bucket.
type Store struct {
	region   string
	user     string
	password string
	endpoint string
	bucket   string
	ttl      time.Duration
}

// NewStore creates a Store from the S3 settings of cfg.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		region:   cfg.S3Region,
		user:     cfg.S3RootUser,
		password: cfg.S3RootPassword,
		endpoint: cfg.S3BaseEndpoint,
		bucket:   cfg.S3Bucket,
		ttl:      cfg.AvatarUploadTTL,
	}
}

// Key returns a fresh object key for one of userID's avatars.
func Key(userID ids.UserID) string {
	return fmt.Sprintf("avatars/%s/%s", userID, newObjectName())
}

// Reference builds the stored avatar reference for key.
func (s *Store) Reference(key string) *url.URL {
	return &url.URL{Scheme: Scheme, Host: s.bucket, Path: "/" + key}
}

// KeyOf extracts the object key from a reference produced by Reference.
func (s *Store) KeyOf(ref *url.URL) (string, error) {
	if ref == nil || ref.Scheme != Scheme || ref.Host != s.bucket {
		return "", common.NewInvalidArgumentError("avatar_url", "not an object in the avatar bucket")
	}
	key := strings.TrimPrefix(ref.Path, "/")
	if key == "" {
		return "", common.NewInvalidArgumentError("avatar_url", "missing object key")
	}
	return key, nil
}

func (s *Store) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.user, s.password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.endpoint)
		// MinIO serves buckets by path.
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a PUT URL for a new avatar of userID.
func (s *Store) PresignUpload(ctx context.Context, userID ids.UserID) (*Upload, error) {
	if userID.IsZero() {
		return nil, common.NewInvalidArgumentError("user_id", "must not be empty")
	}

	pc, err := s.presignClient(ctx)
	if err != nil {
		return nil, err
	}

	key := Key(userID)
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &Upload{Key: key, URL: req.URL, Reference: s.Reference(key)}, nil
}

// PresignDownload returns a GET URL for the avatar stored under ref.
func (s *Store) PresignDownload(ctx context.Context, ref *url.URL) (string, error) {
	key, err := s.KeyOf(ref)
	if err != nil {
		return "", err
	}

	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}
