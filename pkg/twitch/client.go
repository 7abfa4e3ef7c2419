package twitch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
)

const (
	// DefaultAPIURL is the Helix API base URL
	DefaultAPIURL = "https://api.twitch.tv/helix"

	// DefaultAuthURL is the OAuth2 token endpoint
	DefaultAuthURL = "https://id.twitch.tv/oauth2/token"

	// DefaultCDNURL is the base path emote assets are served from
	DefaultCDNURL = "https://static-cdn.jtvnw.net/emoticons/v2"

	// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
	maxJSONResponseBytes = 10 << 20
)

type (
	// Emote is a single emote as reported by the platform
	Emote struct {
		ID   string
		Name string
	}

	// User is a platform account, used to resolve a channel login to its id
	User struct {
		ID          string
		Login       string
		DisplayName string
	}

	// helixEmote is the JSON wire format for an emote
	helixEmote struct {
		ID        string   `json:"id"`
		Name      string   `json:"name"`
		Format    []string `json:"format"`
		Scale     []string `json:"scale"`
		ThemeMode []string `json:"theme_mode"`
	}

	// emotesResponse is the JSON wire format of both emote endpoints
	emotesResponse struct {
		Data     []helixEmote `json:"data"`
		Template string       `json:"template"`
	}

	// helixUser is the JSON wire format for a user
	helixUser struct {
		ID          string `json:"id"`
		Login       string `json:"login"`
		DisplayName string `json:"display_name"`
	}

	// usersResponse is the JSON wire format of the users endpoint
	usersResponse struct {
		Data []helixUser `json:"data"`
	}

	// Client queries the Helix API for emote metadata
	Client struct {
		httpClient *http.Client
		baseURL    string
		clientID   string
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets the HTTP client, normally the authenticated one from Authenticate
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the API base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a Client for the given application id.
// Defaults: baseURL=DefaultAPIURL, userAgent="twitchmotes/dev", httpClient=http.DefaultClient.
func NewClient(clientID string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultAPIURL,
		clientID:   clientID,
		userAgent:  "twitchmotes/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GlobalEmotes returns the platform-wide emote set in the order the API reports it
func (c *Client) GlobalEmotes(ctx context.Context) ([]Emote, error) {
	var resp emotesResponse
	if err := c.getJSON(ctx, "/chat/emotes/global", nil, &resp); err != nil {
		return nil, errors.Wrap(err, errors.GetErrorCode(err), "fetching global emotes")
	}
	return toEmotes(resp.Data), nil
}

// ChannelEmotes returns the emotes of the broadcaster with the given id
func (c *Client) ChannelEmotes(ctx context.Context, broadcasterID string) ([]Emote, error) {
	var resp emotesResponse
	q := url.Values{"broadcaster_id": {broadcasterID}}
	if err := c.getJSON(ctx, "/chat/emotes", q, &resp); err != nil {
		return nil, errors.Wrapf(err, errors.GetErrorCode(err), "fetching emotes of broadcaster %s", broadcasterID)
	}
	return toEmotes(resp.Data), nil
}

// LookupChannel resolves a channel login to its user record.
// It fails with ErrChannelNotFound when the platform knows no such login.
func (c *Client) LookupChannel(ctx context.Context, login string) (User, error) {
	var resp usersResponse
	q := url.Values{"login": {strings.ToLower(login)}}
	if err := c.getJSON(ctx, "/users", q, &resp); err != nil {
		return User{}, errors.Wrapf(err, errors.GetErrorCode(err), "looking up channel %s", login)
	}
	if len(resp.Data) == 0 {
		return User{}, errors.Newf(errors.ErrChannelNotFound, "channel %q does not exist", login).
			WithDetail("channel", login)
	}
	u := resp.Data[0]
	return User{ID: u.ID, Login: u.Login, DisplayName: u.DisplayName}, nil
}

// getJSON issues a GET for path and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, reqURL)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAPIRequest, "request to %s failed", path)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.Newf(errors.ErrAuth, "request to %s rejected with status %d", path, resp.StatusCode).
			WithDetail("status", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return errors.Newf(errors.ErrAPIRequest, "request to %s: unexpected status %d", path, resp.StatusCode).
			WithDetail("status", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(out); err != nil {
		return errors.Wrapf(err, errors.ErrAPIRequest, "decoding response from %s", path)
	}
	return nil
}

// doRequest creates and executes an HTTP request with the default Helix headers.
func (c *Client) doRequest(ctx context.Context, method, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrAPIRequest, "creating request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("User-Agent", c.userAgent)

	return c.httpClient.Do(req)
}

func toEmotes(data []helixEmote) []Emote {
	emotes := make([]Emote, 0, len(data))
	for _, e := range data {
		emotes = append(emotes, Emote{ID: e.ID, Name: e.Name})
	}
	return emotes
}
