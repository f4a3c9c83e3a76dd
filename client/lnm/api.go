// Package lnm implements the exchange interfaces for the lnmarkets
// derivatives api. All rest calls are signed, the price feed runs over
// an unauthenticated websocket subscription.
package lnm

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
)

const (
	// Name identifies the client in the config.
	Name = "lnm"

	userAgent  = "free-fall"
	signPrefix = "/v2"
)

// Credentials carry the api authentication material, loaded from the
// environment and never from the json config.
type Credentials struct {
	Key        string
	Secret     string
	Passphrase string
}

// Client is the signed rest client for the lnmarkets futures api.
type Client struct {
	apiURL      string
	credentials Credentials
	granularity cointime.Granularity
	coin        model.Coin
	http        *http.Client
	// now is swappable for deterministic signing in tests.
	now func() time.Time
}

// New creates a new client for the given api base url.
func New(coin model.Coin, apiURL string, granularity cointime.Granularity, credentials Credentials) *Client {
	return &Client{
		apiURL:      strings.TrimRight(apiURL, "/"),
		credentials: credentials,
		granularity: granularity,
		coin:        coin,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

// sign computes the base64 hmac-sha256 signature over the concatenation of
// the timestamp, the uppercase method, the versioned path and the payload.
// Whitespace is stripped from the payload before signing.
func sign(secret string, timestamp int64, method, path, payload string) string {
	payload = strings.ReplaceAll(payload, "\n", "")
	payload = strings.ReplaceAll(payload, " ", "")
	prehash := fmt.Sprintf("%d%s%s%s", timestamp, strings.ToUpper(method), path, payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(prehash))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// do sends a signed request and decodes the response into out.
// For get requests the query string is part of the signature payload,
// for post requests the json body is.
func (c *Client) do(method, path string, query url.Values, body interface{}, out interface{}) error {
	var payload string
	var reader *bytes.Reader

	switch method {
	case http.MethodGet:
		payload = query.Encode()
		reader = bytes.NewReader(nil)
	case http.MethodPost:
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode request body for %s: %w", path, err)
		}
		payload = string(b)
		reader = bytes.NewReader(b)
	default:
		return fmt.Errorf("unsupported method: %s", method)
	}

	u := fmt.Sprintf("%s%s", c.apiURL, path)
	if method == http.MethodGet && len(query) > 0 {
		u = fmt.Sprintf("%s?%s", u, query.Encode())
	}

	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return fmt.Errorf("could not create request for %s: %w", path, err)
	}

	timestamp := c.now().UnixNano() / int64(time.Millisecond)
	signature := sign(c.credentials.Secret, timestamp, method, signPrefix+path, payload)

	req.Header.Set("LNM-ACCESS-KEY", c.credentials.Key)
	req.Header.Set("LNM-ACCESS-PASSPHRASE", c.credentials.Passphrase)
	req.Header.Set("LNM-ACCESS-TIMESTAMP", strconv.FormatInt(timestamp, 10))
	req.Header.Set("LNM-ACCESS-SIGNATURE", signature)
	req.Header.Set("User-Agent", userAgent)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	response, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	b, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("could not read response from %s: %w", path, err)
	}

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s returned %d: %s", path, response.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("could not decode response from %s: %w", path, err)
	}
	return nil
}
