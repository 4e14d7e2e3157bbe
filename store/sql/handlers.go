package sqlstore

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

func oauthTokenHandlers() repository.ModelHandlers[*oauthTokenRecord] {
	return repository.ModelHandlers[*oauthTokenRecord]{
		NewRecord: func() *oauthTokenRecord {
			return &oauthTokenRecord{}
		},
		GetID: func(record *oauthTokenRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			parsed, err := uuid.Parse(strings.TrimSpace(record.ID))
			if err != nil {
				return uuid.Nil
			}
			return parsed
		},
		SetID: func(record *oauthTokenRecord, id uuid.UUID) {
			if record != nil {
				record.ID = id.String()
			}
		},
		GetIdentifier: func() string {
			return "token_key"
		},
		GetIdentifierValue: func(record *oauthTokenRecord) string {
			if record == nil {
				return ""
			}
			return record.TokenKey
		},
	}
}
