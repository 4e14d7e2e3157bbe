package core

import (
	"time"

	"github.com/google/uuid"
)

// TokensExpiryMargin is how close to expiry tokens are considered about to expire.
const TokensExpiryMargin = 5 * time.Minute

type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type OAuthScope int

const (
	OAuthScopeOfflineAccess OAuthScope = iota + 1
	OAuthScopeOpenID
	OAuthScopeOrganizationRead
	OAuthScopeAttachmentWrite
)

var AllOAuthScopes = []OAuthScope{
	OAuthScopeOfflineAccess,
	OAuthScopeOpenID,
	OAuthScopeOrganizationRead,
	OAuthScopeAttachmentWrite,
}

type OAuthTokens struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
}

// AreAboutToExpire reports whether the access token expires within
// TokensExpiryMargin of now. Refreshing is up to the caller.
func (t OAuthTokens) AreAboutToExpire(now time.Time) bool {
	return !now.Add(TokensExpiryMargin).Before(t.ExpiresAt)
}

type OAuthCodeAndUniqueState struct {
	Code        string
	UniqueState string
}

// NewUniqueState returns a random value suitable for the login URI state.
func NewUniqueState() string {
	return uuid.NewString()
}
