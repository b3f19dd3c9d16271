package cb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"cbtrader/config"
)

const defaultBaseUrl = "https://api.coinbase.com"

// Client talks to the Advanced Trade brokerage REST API. It is stateless
// apart from the credentials and safe for concurrent use.
type Client struct {
	baseUrl    string
	key        string
	secret     string
	httpClient *http.Client
	now        func() time.Time
}

func New(exchgConfig *config.ExchangeConfig) (*Client, error) {
	key := os.Getenv(exchgConfig.EnvPrefix + "_API_KEY")
	secret := os.Getenv(exchgConfig.EnvPrefix + "_API_SECRET")
	if key == "" || secret == "" {
		return nil, fmt.Errorf("API key or secret is not set: prefix %v", exchgConfig.EnvPrefix)
	}

	baseUrl := exchgConfig.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	return &Client{
		baseUrl:    baseUrl,
		key:        key,
		secret:     secret,
		httpClient: &http.Client{},
		now:        time.Now,
	}, nil
}

// do sends a signed request and decodes the JSON response body into out.
// Non-2xx responses surface as errors carrying the exchange's message body.
func (c *Client) do(ctx context.Context, method, path string, reqBody any, out any) error {
	var body []byte
	if reqBody != nil {
		var err error
		body, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("fail to encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.signRequest(req, method, path, body)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%s %s returned %s: %s", method, path, res.Status, resBody)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return fmt.Errorf("fail to decode response of %s %s: %w", method, path, err)
	}
	return nil
}
