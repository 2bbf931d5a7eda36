// Package storage hands out playable URLs for ambience audio kept in an
// S3-compatible bucket (DigitalOcean Spaces, MinIO, AWS).
package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/respir-app/respir-api/config"
)

// ErrNotConfigured is returned when an object key must be resolved without a bucket
var ErrNotConfigured = errors.New("audio storage is not configured")

// AudioStore resolves ambience audio references to URLs a player can fetch
type AudioStore struct {
	s3Client *s3.S3
	bucket   string
	cdnURL   string
	ttl      time.Duration
}

// AudioConfig holds configuration for the audio bucket
type AudioConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
	TTL       time.Duration
}

// ConfigFromEnv extracts the audio bucket settings
func ConfigFromEnv(env *config.EnvironmentVariables) AudioConfig {
	return AudioConfig{
		AccessKey: env.AUDIO_S3_ACCESS_KEY,
		SecretKey: env.AUDIO_S3_SECRET_KEY,
		Bucket:    env.AUDIO_S3_BUCKET,
		Region:    env.AUDIO_S3_REGION,
		Endpoint:  env.AUDIO_S3_ENDPOINT,
		CDNURL:    env.AUDIO_CDN_URL,
		TTL:       env.AUDIO_URL_TTL,
	}
}

// NewAudioStore creates the S3 client. No request is made until a URL is signed.
func NewAudioStore(cfg AudioConfig) (*AudioStore, error) {
	awsConfig := &aws.Config{
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:      aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio storage session: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &AudioStore{
		s3Client: s3.New(sess),
		bucket:   cfg.Bucket,
		cdnURL:   strings.TrimRight(cfg.CDNURL, "/"),
		ttl:      ttl,
	}, nil
}

// PresignedURL generates a GET URL valid for expiration
func (s *AudioStore) PresignedURL(key string, expiration time.Duration) (string, error) {
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	signed, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return signed, nil
}

// PlayableURL turns a stored audio reference into a fetchable URL. Absolute http(s)
// URLs are returned unchanged; object keys go through the CDN when one is set,
// otherwise they are presigned. A nil store can only pass absolute URLs through.
func (s *AudioStore) PlayableURL(ref string) (string, time.Time, error) {
	ref = strings.TrimSpace(ref)
	if isAbsoluteURL(ref) {
		return ref, time.Time{}, nil
	}
	if s == nil {
		return "", time.Time{}, ErrNotConfigured
	}

	key := strings.TrimLeft(ref, "/")
	if s.cdnURL != "" {
		return s.cdnURL + "/" + key, time.Time{}, nil
	}

	signed, err := s.PresignedURL(key, s.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, time.Now().UTC().Add(s.ttl), nil
}

func isAbsoluteURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
