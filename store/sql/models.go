package sqlstore

import (
	"time"

	"github.com/goliatone/go-qonto/core"
	"github.com/uptrace/bun"
)

type oauthTokenRecord struct {
	bun.BaseModel `bun:"table:qonto_oauth_tokens,alias:qot"`

	ID           string    `bun:"id,pk"`
	TokenKey     string    `bun:"token_key,notnull"`
	AccessToken  string    `bun:"access_token,notnull"`
	RefreshToken string    `bun:"refresh_token,notnull"`
	TokenType    string    `bun:"token_type,notnull"`
	ExpiresAt    time.Time `bun:"expires_at,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (r *oauthTokenRecord) apply(tokens core.OAuthTokens, now time.Time) {
	r.AccessToken = tokens.AccessToken
	r.RefreshToken = tokens.RefreshToken
	r.TokenType = tokens.TokenType
	r.ExpiresAt = tokens.ExpiresAt.UTC()
	r.UpdatedAt = now
}

func (r *oauthTokenRecord) toDomain() core.OAuthTokens {
	if r == nil {
		return core.OAuthTokens{}
	}
	return core.OAuthTokens{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		ExpiresAt:    r.ExpiresAt,
	}
}
