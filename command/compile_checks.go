package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-qonto/core"
)

var (
	_ gocmd.Commander[AddAttachmentMessage]        = (*AddAttachmentCommand)(nil)
	_ gocmd.Commander[RemoveAttachmentMessage]     = (*RemoveAttachmentCommand)(nil)
	_ gocmd.Commander[RemoveAllAttachmentsMessage] = (*RemoveAllAttachmentsCommand)(nil)
	_ gocmd.Commander[GetTokensMessage]            = (*GetTokensCommand)(nil)
	_ gocmd.Commander[RefreshTokensMessage]        = (*RefreshTokensCommand)(nil)

	_ TokenSink = (*core.OAuthAuthentication)(nil)
)
