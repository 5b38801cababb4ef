// Package blob implements the object storage adapter against any
// S3-compatible store using AWS Signature V4 over plain net/http.
package blob

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	requestTimeout = 60 * time.Second

	// ResolveURL confirms object visibility with signed HEADs before handing
	// the URL out. Backoff doubles per attempt: 200ms, 400ms, 800ms, 1.6s.
	resolveAttempts = 5
	resolveBackoff  = 200 * time.Millisecond
)

// emptyPayloadHash is sha256("") — the payload hash for bodyless requests.
const emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// Config captures the settings for one bucket.
type Config struct {
	Bucket string
	Region string
	// Endpoint overrides the AWS virtual-hosted URL with a path-style base
	// (e.g. a MinIO host). Scheme included.
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store writes objects and resolves their retrieval URLs.
type S3Store struct {
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger
}

func NewS3Store(cfg Config, log zerolog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("blob: bucket is required")
	}
	if cfg.Endpoint == "" && cfg.Region == "" {
		return nil, fmt.Errorf("blob: region is required without a custom endpoint")
	}
	return &S3Store{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}, nil
}

// Put writes data under key. The store either acknowledges a durable write or
// Put returns an error; there is no partial success.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(key), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", fmt.Sprintf("%d", len(data)))

	s.sign(req, sha256Hex(data))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.log.Error().Str("key", key).Int("status", resp.StatusCode).Msg("object write rejected")
		return fmt.Errorf("put object: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("object written")
	return nil
}

// ResolveURL returns the retrieval URL for key after confirming the object is
// actually visible. Visibility is polled with signed HEADs and bounded
// backoff; a fixed sleep is never a substitute for the store's own answer.
func (s *S3Store) ResolveURL(ctx context.Context, key string) (string, error) {
	var lastErr error
	backoff := resolveBackoff

	for attempt := 1; attempt <= resolveAttempts; attempt++ {
		ok, err := s.head(ctx, key)
		if err == nil && ok {
			return s.objectURL(key), nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("object %s not yet visible", key)
		}

		if attempt == resolveAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return "", fmt.Errorf("resolve url after %d attempts: %w", resolveAttempts, lastErr)
}

// head reports whether the object exists. A 404 is not an error — the write
// may still be settling on an eventually consistent store.
func (s *S3Store) head(ctx context.Context, key string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.objectURL(key), nil)
	if err != nil {
		return false, err
	}
	s.sign(req, emptyPayloadHash)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("head object: status %d", resp.StatusCode)
	}
}

// objectURL builds the durable URL for a key: virtual-hosted AWS style, or
// path-style under a custom endpoint.
func (s *S3Store) objectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, escaped)
}

// sign attaches the AWS Signature V4 authorization header.
func (s *S3Store) sign(req *http.Request, payloadHash string) {
	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")

	req.Header.Set("Host", req.URL.Host)
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)

	signedHeaders := []string{"host", "x-amz-content-sha256", "x-amz-date"}
	if req.Header.Get("Content-Type") != "" {
		signedHeaders = []string{"content-type", "host", "x-amz-content-sha256", "x-amz-date"}
	}

	var canonicalHeaders strings.Builder
	for _, h := range signedHeaders {
		canonicalHeaders.WriteString(h)
		canonicalHeaders.WriteString(":")
		canonicalHeaders.WriteString(strings.TrimSpace(req.Header.Get(h)))
		canonicalHeaders.WriteString("\n")
	}
	signedHeadersStr := strings.Join(signedHeaders, ";")

	canonicalURI := req.URL.EscapedPath()
	if canonicalURI == "" {
		canonicalURI = "/"
	}

	canonicalRequest := fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		req.Method,
		canonicalURI,
		req.URL.RawQuery,
		canonicalHeaders.String(),
		signedHeadersStr,
		payloadHash,
	)

	region := s.cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	credentialScope := fmt.Sprintf("%s/%s/s3/aws4_request", dateStamp, region)
	stringToSign := fmt.Sprintf("AWS4-HMAC-SHA256\n%s\n%s\n%s",
		amzDate,
		credentialScope,
		sha256Hex([]byte(canonicalRequest)),
	)

	kDate := hmacSHA256([]byte("AWS4"+s.cfg.SecretAccessKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte("s3"))
	kSigning := hmacSHA256(kService, []byte("aws4_request"))
	signature := hex.EncodeToString(hmacSHA256(kSigning, []byte(stringToSign)))

	req.Header.Set("Authorization", fmt.Sprintf(
		"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		s.cfg.AccessKeyID,
		credentialScope,
		signedHeadersStr,
		signature,
	))
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
