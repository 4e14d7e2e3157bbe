package core

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type oauthAPI struct {
	rt *runtime
}

// GetLoginURI builds the authorization page URI. It does not call the
// network. A nil scopes slice requests every known scope.
func (a *oauthAPI) GetLoginURI(credentials OAuthCredentials, scopes []OAuthScope, uniqueState string) (string, error) {
	if err := a.rt.ensureOpen("oauth.login_uri"); err != nil {
		return "", err
	}
	if err := requireID("oauth client id", credentials.ClientID); err != nil {
		return "", err
	}
	if scopes == nil {
		scopes = AllOAuthScopes
	}
	apiScopes := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		value, err := OAuthScopeCodec.ModelToAPI(scope)
		if err != nil {
			return "", err
		}
		apiScopes = append(apiScopes, value)
	}

	target, err := resolveURL(a.rt.cfg.OAuthBaseURL, "auth")
	if err != nil {
		return "", badInputError("qonto: invalid oauth base url: " + err.Error())
	}
	values := url.Values{}
	values.Set("client_id", credentials.ClientID)
	values.Set("redirect_uri", credentials.RedirectURI)
	values.Set("response_type", "code")
	values.Set("scope", strings.Join(apiScopes, " "))
	values.Set("state", uniqueState)
	return target + "?" + values.Encode(), nil
}

// ExtractCodeAndUniqueStateFromRedirectURI reads the code and state query
// parameters of the redirect URI. It reports false when the URI cannot be
// parsed or either parameter is missing.
func (a *oauthAPI) ExtractCodeAndUniqueStateFromRedirectURI(redirectURI string) (OAuthCodeAndUniqueState, bool) {
	return ExtractCodeAndUniqueState(redirectURI)
}

func ExtractCodeAndUniqueState(redirectURI string) (OAuthCodeAndUniqueState, bool) {
	parsed, err := url.Parse(strings.TrimSpace(redirectURI))
	if err != nil {
		return OAuthCodeAndUniqueState{}, false
	}
	query, err := url.ParseQuery(parsed.RawQuery)
	if err != nil {
		return OAuthCodeAndUniqueState{}, false
	}
	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		return OAuthCodeAndUniqueState{}, false
	}
	return OAuthCodeAndUniqueState{Code: code, UniqueState: state}, true
}

func (a *oauthAPI) GetTokens(ctx context.Context, credentials OAuthCredentials, code string) (OAuthTokens, error) {
	ctx = normalizeContext(ctx)
	fields := map[string]any{"client_id": credentials.ClientID}
	return observe(ctx, a.rt, "qonto.oauth.get_tokens", fields, func() (OAuthTokens, error) {
		if err := requireID("oauth code", code); err != nil {
			return OAuthTokens{}, err
		}
		form := url.Values{}
		form.Set("code", code)
		form.Set("redirect_uri", credentials.RedirectURI)
		form.Set("grant_type", "authorization_code")
		return a.requestTokens(ctx, "oauth.get_tokens", credentials, form)
	})
}

func (a *oauthAPI) RefreshTokens(ctx context.Context, credentials OAuthCredentials, tokens OAuthTokens) (OAuthTokens, error) {
	ctx = normalizeContext(ctx)
	fields := map[string]any{"client_id": credentials.ClientID}
	return observe(ctx, a.rt, "qonto.oauth.refresh_tokens", fields, func() (OAuthTokens, error) {
		if err := requireID("refresh token", tokens.RefreshToken); err != nil {
			return OAuthTokens{}, err
		}
		form := url.Values{}
		form.Set("refresh_token", tokens.RefreshToken)
		form.Set("redirect_uri", credentials.RedirectURI)
		form.Set("grant_type", "refresh_token")
		return a.requestTokens(ctx, "oauth.refresh_tokens", credentials, form)
	})
}

func (a *oauthAPI) requestTokens(ctx context.Context, operation string, credentials OAuthCredentials, form url.Values) (OAuthTokens, error) {
	if err := requireID("oauth client id", credentials.ClientID); err != nil {
		return OAuthTokens{}, err
	}
	resp, err := a.rt.send(ctx, apiCall{
		operation:   operation,
		method:      http.MethodPost,
		baseURL:     a.rt.cfg.OAuthBaseURL,
		path:        "token",
		headers:     map[string]string{headerAuthorization: basicAuthorization(credentials.ClientID, credentials.ClientSecret)},
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		return OAuthTokens{}, err
	}
	payload, err := decodeJSON[apiOAuthTokens](resp.Body, "oauth tokens")
	if err != nil {
		return OAuthTokens{}, err
	}
	return convertOAuthTokens(payload, a.rt.now())
}

var _ OAuth = (*oauthAPI)(nil)
