// Package cloudinary sends signed upload requests to the external media
// host. The host recomputes the signature from the shared secret, so the
// timestamp unit (unix milliseconds) and the signed string layout are
// contractual.
package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
)

// ErrNoImageData is returned when an upload is attempted without a payload
var ErrNoImageData = errors.New("no image data")

// Client uploads image payloads to the configured media host
type Client struct {
	uploadURL string
	apiKey    string
	apiSecret string
	http      *http.Client
	now       func() time.Time
}

// New returns a client for the given upload endpoint and key pair.
// The secret is used for signing only and never transmitted.
func New(uploadURL, apiKey, apiSecret string) *Client {
	return &Client{
		uploadURL: uploadURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		http:      &http.Client{Timeout: 15 * time.Second},
		now:       time.Now,
	}
}

type uploadRequest struct {
	File      string `json:"file"`
	APIKey    string `json:"api_key"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

type uploadResponse struct {
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
}

// Upload signs and posts the payload, returning the hosted URL
func (c *Client) Upload(ctx context.Context, file string) (string, error) {
	if file == "" {
		return "", ErrNoImageData
	}

	timestamp := c.now().UnixMilli()
	signature, err := api.SignParameters(url.Values{
		"timestamp": []string{strconv.FormatInt(timestamp, 10)},
	}, c.apiSecret)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(uploadRequest{
		File:      file,
		APIKey:    c.apiKey,
		Timestamp: timestamp,
		Signature: signature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("upload rejected: %s", resp.Status)
	}

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", err
	}
	return ur.URL, nil
}
