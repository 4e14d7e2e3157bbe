package command

import (
	"io"
	"strings"

	"github.com/goliatone/go-qonto/core"
)

const (
	TypeAddAttachment        = "qonto.command.attachments.add"
	TypeRemoveAttachment     = "qonto.command.attachments.remove"
	TypeRemoveAllAttachments = "qonto.command.attachments.remove_all"
	TypeGetTokens            = "qonto.command.oauth.get_tokens"
	TypeRefreshTokens        = "qonto.command.oauth.refresh_tokens"
)

// AddAttachmentMessage uploads Input; the handler never closes it.
type AddAttachmentMessage struct {
	TransactionInternalID string
	AttachmentType        core.AttachmentType
	Input                 io.Reader
}

func (AddAttachmentMessage) Type() string { return TypeAddAttachment }

func (m AddAttachmentMessage) Validate() error {
	if err := requireTransaction(m.TransactionInternalID); err != nil {
		return err
	}
	if !m.AttachmentType.Valid() {
		return commandValidationError("attachment_type", "attachment type must be png, jpeg or pdf")
	}
	if m.Input == nil {
		return commandValidationError("input", "attachment input is required")
	}
	return nil
}

type RemoveAttachmentMessage struct {
	TransactionInternalID string
	AttachmentID          string
}

func (RemoveAttachmentMessage) Type() string { return TypeRemoveAttachment }

func (m RemoveAttachmentMessage) Validate() error {
	if err := requireTransaction(m.TransactionInternalID); err != nil {
		return err
	}
	if strings.TrimSpace(m.AttachmentID) == "" {
		return commandValidationError("attachment_id", "attachment id is required")
	}
	return nil
}

type RemoveAllAttachmentsMessage struct {
	TransactionInternalID string
}

func (RemoveAllAttachmentsMessage) Type() string { return TypeRemoveAllAttachments }

func (m RemoveAllAttachmentsMessage) Validate() error {
	return requireTransaction(m.TransactionInternalID)
}

type GetTokensMessage struct {
	Credentials core.OAuthCredentials
	Code        string
}

func (GetTokensMessage) Type() string { return TypeGetTokens }

func (m GetTokensMessage) Validate() error {
	if err := requireCredentials(m.Credentials); err != nil {
		return err
	}
	if strings.TrimSpace(m.Code) == "" {
		return commandValidationError("code", "authorization code is required")
	}
	return nil
}

type RefreshTokensMessage struct {
	Credentials core.OAuthCredentials
	Tokens      core.OAuthTokens
}

func (RefreshTokensMessage) Type() string { return TypeRefreshTokens }

func (m RefreshTokensMessage) Validate() error {
	if err := requireCredentials(m.Credentials); err != nil {
		return err
	}
	if strings.TrimSpace(m.Tokens.RefreshToken) == "" {
		return commandValidationError("refresh_token", "refresh token is required")
	}
	return nil
}

func requireTransaction(id string) error {
	if strings.TrimSpace(id) == "" {
		return commandValidationError("transaction_internal_id", "transaction internal id is required")
	}
	return nil
}

func requireCredentials(credentials core.OAuthCredentials) error {
	if strings.TrimSpace(credentials.ClientID) == "" {
		return commandValidationError("client_id", "client id is required")
	}
	if strings.TrimSpace(credentials.ClientSecret) == "" {
		return commandValidationError("client_secret", "client secret is required")
	}
	return nil
}
