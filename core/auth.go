package core

import (
	"encoding/base64"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

const headerAuthorization = "Authorization"

// Authentication produces the Authorization header value for API calls.
type Authentication interface {
	AuthorizationHeader() (string, error)
}

// LoginSecretKeyAuthentication authenticates with the organization login and
// its API secret key.
type LoginSecretKeyAuthentication struct {
	Login     string
	SecretKey string
}

func (a LoginSecretKeyAuthentication) AuthorizationHeader() (string, error) {
	if a.Login == "" || a.SecretKey == "" {
		return "", badInputError("qonto: login and secret key are required")
	}
	return a.Login + ":" + a.SecretKey, nil
}

// OAuthAuthentication holds the current OAuth tokens of one client. Tokens
// are set by the caller after GetTokens or RefreshTokens; nothing refreshes
// them automatically.
type OAuthAuthentication struct {
	mu     sync.RWMutex
	tokens *OAuthTokens
}

func NewOAuthAuthentication(tokens *OAuthTokens) *OAuthAuthentication {
	auth := &OAuthAuthentication{}
	if tokens != nil {
		auth.SetTokens(*tokens)
	}
	return auth
}

func (a *OAuthAuthentication) SetTokens(tokens OAuthTokens) {
	a.mu.Lock()
	a.tokens = &tokens
	a.mu.Unlock()
}

func (a *OAuthAuthentication) ClearTokens() {
	a.mu.Lock()
	a.tokens = nil
	a.mu.Unlock()
}

func (a *OAuthAuthentication) Tokens() (OAuthTokens, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.tokens == nil {
		return OAuthTokens{}, false
	}
	return *a.tokens, true
}

func (a *OAuthAuthentication) AuthorizationHeader() (string, error) {
	tokens, ok := a.Tokens()
	if !ok || tokens.AccessToken == "" {
		return "", NewError(
			"qonto: oauth authentication is configured but no tokens are set",
			goerrors.CategoryAuth,
			ErrorOAuthTokensMissing,
		)
	}
	return "Bearer " + tokens.AccessToken, nil
}

func basicAuthorization(clientID, clientSecret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(clientID+":"+clientSecret))
}

var (
	_ Authentication = LoginSecretKeyAuthentication{}
	_ Authentication = (*OAuthAuthentication)(nil)
)
