package api

import "net/http"

// setAuthorizationHeader attaches the bearer credential when one is stored.
// Anonymous browsing stays possible, so a missing token is not an error at
// the transport layer; endpoints that require auth gate on it themselves.
func (c *Client) setAuthorizationHeader(request *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token()
	if err != nil || token == "" {
		return
	}
	request.Header.Set("Authorization", "Bearer "+token)
}
