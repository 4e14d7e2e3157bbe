package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-qonto/core"
)

// TokenSink receives tokens obtained by the OAuth commands, e.g. the client's
// own OAuthAuthentication or a persisted token store.
type TokenSink interface {
	SetTokens(tokens core.OAuthTokens)
}

type AddAttachmentCommand struct {
	attachments core.Attachments
}

func NewAddAttachmentCommand(attachments core.Attachments) *AddAttachmentCommand {
	return &AddAttachmentCommand{attachments: attachments}
}

func (c *AddAttachmentCommand) Execute(ctx context.Context, msg AddAttachmentMessage) error {
	if c == nil || c.attachments == nil {
		return commandDependencyError("command: attachments are required")
	}
	return c.attachments.AddAttachment(ctx, msg.TransactionInternalID, msg.AttachmentType, msg.Input)
}

type RemoveAttachmentCommand struct {
	attachments core.Attachments
}

func NewRemoveAttachmentCommand(attachments core.Attachments) *RemoveAttachmentCommand {
	return &RemoveAttachmentCommand{attachments: attachments}
}

func (c *RemoveAttachmentCommand) Execute(ctx context.Context, msg RemoveAttachmentMessage) error {
	if c == nil || c.attachments == nil {
		return commandDependencyError("command: attachments are required")
	}
	return c.attachments.RemoveAttachment(ctx, msg.TransactionInternalID, msg.AttachmentID)
}

type RemoveAllAttachmentsCommand struct {
	attachments core.Attachments
}

func NewRemoveAllAttachmentsCommand(attachments core.Attachments) *RemoveAllAttachmentsCommand {
	return &RemoveAllAttachmentsCommand{attachments: attachments}
}

func (c *RemoveAllAttachmentsCommand) Execute(ctx context.Context, msg RemoveAllAttachmentsMessage) error {
	if c == nil || c.attachments == nil {
		return commandDependencyError("command: attachments are required")
	}
	return c.attachments.RemoveAllAttachments(ctx, msg.TransactionInternalID)
}

type GetTokensCommand struct {
	oauth core.OAuth
	sinks []TokenSink
}

func NewGetTokensCommand(oauth core.OAuth, sinks ...TokenSink) *GetTokensCommand {
	return &GetTokensCommand{oauth: oauth, sinks: sinks}
}

// Execute exchanges the code, hands the tokens to every sink and stores them
// as the command result.
func (c *GetTokensCommand) Execute(ctx context.Context, msg GetTokensMessage) error {
	if c == nil || c.oauth == nil {
		return commandDependencyError("command: oauth is required")
	}
	tokens, err := c.oauth.GetTokens(ctx, msg.Credentials, msg.Code)
	if err != nil {
		return err
	}
	publishTokens(c.sinks, tokens)
	storeResult(ctx, tokens)
	return nil
}

type RefreshTokensCommand struct {
	oauth core.OAuth
	sinks []TokenSink
}

func NewRefreshTokensCommand(oauth core.OAuth, sinks ...TokenSink) *RefreshTokensCommand {
	return &RefreshTokensCommand{oauth: oauth, sinks: sinks}
}

func (c *RefreshTokensCommand) Execute(ctx context.Context, msg RefreshTokensMessage) error {
	if c == nil || c.oauth == nil {
		return commandDependencyError("command: oauth is required")
	}
	tokens, err := c.oauth.RefreshTokens(ctx, msg.Credentials, msg.Tokens)
	if err != nil {
		return err
	}
	publishTokens(c.sinks, tokens)
	storeResult(ctx, tokens)
	return nil
}

func publishTokens(sinks []TokenSink, tokens core.OAuthTokens) {
	for _, sink := range sinks {
		if sink != nil {
			sink.SetTokens(tokens)
		}
	}
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
