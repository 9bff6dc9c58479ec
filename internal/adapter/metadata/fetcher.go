// Package metadata downloads and parses off-chain NFT metadata documents.
package metadata

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	"golang.org/x/time/rate"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/port"
)

// Config holds the HTTP behaviour of the fetcher.
type Config struct {
	RequestTimeout time.Duration
	RateLimit      rate.Limit
	RateBurst      int
	MaxContentSize int64
	UserAgent      string
	IPFSGateway    string
	MaxRedirects   int
}

func DefaultConfig() Config {
	return Config{
		RequestTimeout: 10 * time.Second,
		RateLimit:      rate.Limit(20),
		RateBurst:      40,
		MaxContentSize: 1 << 20,
		UserAgent:      "nft-ownership/1.0",
		IPFSGateway:    "https://ipfs.io/ipfs/",
		MaxRedirects:   5,
	}
}

// Fetcher retrieves metadata documents over http(s), ipfs and data URIs.
// Outgoing requests share one rate limiter.
type Fetcher struct {
	config      Config
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewFetcher(config Config) *Fetcher {
	defaults := DefaultConfig()
	if config.RateLimit <= 0 {
		config.RateLimit = defaults.RateLimit
	}
	if config.RateBurst <= 0 {
		config.RateBurst = defaults.RateBurst
	}
	if config.MaxContentSize <= 0 {
		config.MaxContentSize = defaults.MaxContentSize
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.IPFSGateway == "" {
		config.IPFSGateway = defaults.IPFSGateway
	}
	if !strings.HasSuffix(config.IPFSGateway, "/") {
		config.IPFSGateway += "/"
	}
	if config.MaxRedirects <= 0 {
		config.MaxRedirects = defaults.MaxRedirects
	}

	httpClient := &http.Client{
		Timeout: config.RequestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	return &Fetcher{
		config:      config,
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(config.RateLimit, config.RateBurst),
	}
}

// Fetch downloads the document at locator and decodes it. Transport failures
// wrap port.ErrFetchFailed and malformed documents wrap port.ErrParseFailed.
func (f *Fetcher) Fetch(ctx context.Context, locator string) (domain.NFTMetadata, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(locator, "data:") {
		data, err = decodeDataURI(locator)
	} else {
		data, err = f.download(ctx, locator)
	}
	if err != nil {
		return domain.NFTMetadata{}, fmt.Errorf("%w: %s: %w", port.ErrFetchFailed, shorten(locator), err)
	}

	var metadata domain.NFTMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return domain.NFTMetadata{}, fmt.Errorf("%w: %s: %w", port.ErrParseFailed, shorten(locator), err)
	}
	return metadata, nil
}

func (f *Fetcher) download(ctx context.Context, locator string) ([]byte, error) {
	target, err := f.resolveURL(locator)
	if err != nil {
		return nil, fmt.Errorf("invalid locator: %w", err)
	}

	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxContentSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.config.MaxContentSize {
		return nil, fmt.Errorf("document exceeds %d bytes", f.config.MaxContentSize)
	}
	return data, nil
}

// resolveURL maps ipfs:// locators onto the configured gateway and accepts
// plain http(s) URLs.
func (f *Fetcher) resolveURL(locator string) (*url.URL, error) {
	parsed, err := url.Parse(locator)
	if err != nil {
		return nil, err
	}

	switch parsed.Scheme {
	case "http", "https":
		if parsed.Host == "" {
			return nil, fmt.Errorf("missing host")
		}
		return parsed, nil
	case "ipfs":
		path := strings.TrimPrefix(parsed.Host+parsed.Path, "ipfs/")
		root, _, _ := strings.Cut(path, "/")
		if _, err := cid.Decode(root); err != nil {
			return nil, fmt.Errorf("invalid cid %q: %w", root, err)
		}
		return url.Parse(f.config.IPFSGateway + path)
	}
	return nil, fmt.Errorf("scheme not allowed: %q", parsed.Scheme)
}

// decodeDataURI supports data:[<mediatype>][;base64],<data>.
func decodeDataURI(locator string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(locator, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri")
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode base64 payload: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("unescape payload: %w", err)
	}
	return []byte(data), nil
}

func shorten(locator string) string {
	if len(locator) > 96 {
		return locator[:96] + "..."
	}
	return locator
}
