package cb

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
)

// signRequest attaches the CB-ACCESS-* authentication headers. The signature
// is HMAC-SHA256 over timestamp + method + path + body, hex encoded.
func (c *Client) signRequest(req *http.Request, method, path string, body []byte) {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	req.Header.Set("CB-ACCESS-KEY", c.key)
	req.Header.Set("CB-ACCESS-TIMESTAMP", timestamp)
	req.Header.Set("CB-ACCESS-SIGN", sign(c.secret, timestamp+method+path+string(body)))
}

func sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
