package twitch

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/arthur-debert/twitchmotes/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// EnvToken names the environment variable holding the platform credential.
// The expected form is <client_id>:<client_secret>.
const EnvToken = "TWITCHMOTES_TOKEN"

// Credential is an application credential for the Helix API
type Credential struct {
	ClientID     string
	ClientSecret string
}

// CredentialFromEnv reads the credential from EnvToken.
// ok is false when the variable is unset or empty, which disables remote fetching.
func CredentialFromEnv() (string, bool) {
	raw, ok := os.LookupEnv(EnvToken)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

// ParseCredential splits a raw client_id:client_secret credential
func ParseCredential(raw string) (Credential, error) {
	id, secret, found := strings.Cut(raw, ":")
	if !found || id == "" || secret == "" {
		return Credential{}, errors.New(errors.ErrAuth,
			"malformed credential: expected <client_id>:<client_secret> in "+EnvToken)
	}
	return Credential{ClientID: id, ClientSecret: secret}, nil
}

// Authenticate exchanges the credential for an app access token at tokenURL and
// returns an HTTP client that attaches it to every request. The exchange
// happens eagerly so a bad credential surfaces before any catalogue request.
func Authenticate(ctx context.Context, cred Credential, tokenURL string, base *http.Client) (*http.Client, error) {
	cfg := clientcredentials.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	if base == nil {
		base = http.DefaultClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	tok, err := cfg.Token(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrAuth, "credential exchange failed")
	}

	source := oauth2.ReuseTokenSource(tok, cfg.TokenSource(ctx))
	return &http.Client{
		Transport: &oauth2.Transport{Source: source, Base: base.Transport},
		Timeout:   base.Timeout,
	}, nil
}

// Connect parses the raw credential, exchanges it at tokenURL and returns
// a Client whose requests carry the resulting token.
func Connect(ctx context.Context, raw, tokenURL string, base *http.Client, opts ...ClientOption) (*Client, error) {
	cred, err := ParseCredential(raw)
	if err != nil {
		return nil, err
	}
	authed, err := Authenticate(ctx, cred, tokenURL, base)
	if err != nil {
		return nil, err
	}
	opts = append([]ClientOption{WithHTTPClient(authed)}, opts...)
	return NewClient(cred.ClientID, opts...), nil
}
