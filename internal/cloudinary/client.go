package cloudinary

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is Cloudinary's upload API.
const DefaultBaseURL = "https://api.cloudinary.com/v1_1"

// Kind decides the folder an image lands in.
type Kind string

const (
	KindSlide      Kind = "slides"
	KindLogo       Kind = "logos"
	KindBackground Kind = "backgrounds"
)

var ErrUnknownKind = errors.New("unknown image kind")

// ParseKind validates a kind taken from a request.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSlide, KindLogo, KindBackground:
		return k, nil
	case "":
		return KindSlide, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Client uploads images to Cloudinary using their REST API.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	http      *resty.Client
	now       func() time.Time
}

// New creates a Cloudinary client. baseURL may be empty for the public API.
func New(cloudName, apiKey, apiSecret, folder, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second).
			SetHeader("Accept", "application/json"),
		now: time.Now,
	}
}

// UploadResult holds the response from Cloudinary after a successful upload.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int    `json:"bytes"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UploadDataURL uploads a base64 data URL ("data:image/png;base64,...").
func (c *Client) UploadDataURL(ctx context.Context, kind Kind, data string) (*UploadResult, error) {
	req := c.http.R().SetContext(ctx).SetFormData(c.params(kind))
	req.FormData.Set("file", data)
	return c.do(req)
}

// Upload streams an image file.
func (c *Client) Upload(ctx context.Context, kind Kind, r io.Reader, filename string) (*UploadResult, error) {
	req := c.http.R().
		SetContext(ctx).
		SetFormData(c.params(kind)).
		SetFileReader("file", filename, r)
	return c.do(req)
}

func (c *Client) do(req *resty.Request) (*UploadResult, error) {
	var (
		result UploadResult
		apiErr apiError
	)
	resp, err := req.
		SetResult(&result).
		SetError(&apiErr).
		Post("/" + c.cloudName + "/image/upload")
	if err != nil {
		return nil, fmt.Errorf("cloudinary: request failed: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return nil, fmt.Errorf("cloudinary: upload failed (%d): %s", resp.StatusCode(), msg)
	}
	return &result, nil
}

func (c *Client) params(kind Kind) map[string]string {
	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
		"api_key":   c.apiKey,
	}
	folder := string(kind)
	if c.folder != "" {
		folder = c.folder + "/" + folder
	}
	params["folder"] = folder
	params["signature"] = c.sign(params)
	return params
}

// sign computes the Cloudinary API signature from the given params.
// api_key and file are excluded from the signature per Cloudinary's rules.
func (c *Client) sign(params map[string]string) string {
	excludeKeys := map[string]bool{"api_key": true, "file": true, "resource_type": true, "signature": true}

	pairs := make([]string, 0, len(params))
	for k, v := range params {
		if !excludeKeys[k] && v != "" {
			pairs = append(pairs, k+"="+v)
		}
	}
	sort.Strings(pairs)

	h := sha1.New()
	h.Write([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return fmt.Sprintf("%x", h.Sum(nil))
}
