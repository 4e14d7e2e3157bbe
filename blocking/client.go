// Package blocking exposes the operation set as plain calls that return once
// the response has been converted.
package blocking

import (
	"context"
	"io"
	"time"

	"github.com/goliatone/go-qonto/core"
)

type Option func(*Client)

// WithContext sets the base context every call derives from.
func WithContext(ctx context.Context) Option {
	return func(c *Client) {
		if ctx != nil {
			c.base = ctx
		}
	}
}

// WithTimeout bounds each call; zero means no bound beyond the transport's.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

type Client struct {
	core    *core.Client
	base    context.Context
	timeout time.Duration
}

func New(client *core.Client, options ...Option) *Client {
	c := &Client{core: client, base: context.Background()}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) Core() *core.Client {
	return c.core
}

func (c *Client) Close() error {
	return c.core.Close()
}

func (c *Client) context() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(c.base, c.timeout)
	}
	return c.base, func() {}
}

func call[T any](c *Client, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := c.context()
	defer cancel()
	return fn(ctx)
}

func (c *Client) GetOrganization() (core.Organization, error) {
	return call(c, c.core.Organizations.GetOrganization)
}

func (c *Client) GetTransactionList(req core.TransactionListRequest) (core.Page[core.Transaction], error) {
	return call(c, func(ctx context.Context) (core.Page[core.Transaction], error) {
		return c.core.Transactions.GetTransactionList(ctx, req)
	})
}

func (c *Client) GetTransaction(internalID string) (core.Transaction, error) {
	return call(c, func(ctx context.Context) (core.Transaction, error) {
		return c.core.Transactions.GetTransaction(ctx, internalID)
	})
}

func (c *Client) GetMembershipList(pagination core.Pagination) (core.Page[core.Membership], error) {
	return call(c, func(ctx context.Context) (core.Page[core.Membership], error) {
		return c.core.Memberships.GetMembershipList(ctx, pagination)
	})
}

func (c *Client) GetLabelList(pagination core.Pagination) (core.Page[core.Label], error) {
	return call(c, func(ctx context.Context) (core.Page[core.Label], error) {
		return c.core.Labels.GetLabelList(ctx, pagination)
	})
}

func (c *Client) GetAttachment(id string) (core.Attachment, error) {
	return call(c, func(ctx context.Context) (core.Attachment, error) {
		return c.core.Attachments.GetAttachment(ctx, id)
	})
}

func (c *Client) GetAttachmentList(transactionInternalID string) ([]core.Attachment, error) {
	return call(c, func(ctx context.Context) ([]core.Attachment, error) {
		return c.core.Attachments.GetAttachmentList(ctx, transactionInternalID)
	})
}

func (c *Client) AddAttachment(transactionInternalID string, attachmentType core.AttachmentType, input io.Reader) error {
	_, err := call(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.core.Attachments.AddAttachment(ctx, transactionInternalID, attachmentType, input)
	})
	return err
}

func (c *Client) RemoveAttachment(transactionInternalID, attachmentID string) error {
	_, err := call(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.core.Attachments.RemoveAttachment(ctx, transactionInternalID, attachmentID)
	})
	return err
}

func (c *Client) RemoveAllAttachments(transactionInternalID string) error {
	_, err := call(c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.core.Attachments.RemoveAllAttachments(ctx, transactionInternalID)
	})
	return err
}

func (c *Client) GetLoginURI(credentials core.OAuthCredentials, scopes []core.OAuthScope, uniqueState string) (string, error) {
	return c.core.OAuth.GetLoginURI(credentials, scopes, uniqueState)
}

func (c *Client) ExtractCodeAndUniqueStateFromRedirectURI(redirectURI string) (core.OAuthCodeAndUniqueState, bool) {
	return c.core.OAuth.ExtractCodeAndUniqueStateFromRedirectURI(redirectURI)
}

func (c *Client) GetTokens(credentials core.OAuthCredentials, code string) (core.OAuthTokens, error) {
	return call(c, func(ctx context.Context) (core.OAuthTokens, error) {
		return c.core.OAuth.GetTokens(ctx, credentials, code)
	})
}

func (c *Client) RefreshTokens(credentials core.OAuthCredentials, tokens core.OAuthTokens) (core.OAuthTokens, error) {
	return call(c, func(ctx context.Context) (core.OAuthTokens, error) {
		return c.core.OAuth.RefreshTokens(ctx, credentials, tokens)
	})
}

// AllTransactions walks every page of the request, starting at its pagination.
// The timeout, if any, covers the whole walk.
func (c *Client) AllTransactions(req core.TransactionListRequest) ([]core.Transaction, error) {
	return call(c, func(ctx context.Context) ([]core.Transaction, error) {
		return core.CollectAll(ctx, core.TransactionPages(c.core.Transactions, req), req.Pagination)
	})
}

func (c *Client) AllMemberships(initial core.Pagination) ([]core.Membership, error) {
	return call(c, func(ctx context.Context) ([]core.Membership, error) {
		return core.CollectAll(ctx, core.MembershipPages(c.core.Memberships), initial)
	})
}

func (c *Client) AllLabels(initial core.Pagination) ([]core.Label, error) {
	return call(c, func(ctx context.Context) ([]core.Label, error) {
		return core.CollectAll(ctx, core.LabelPages(c.core.Labels), initial)
	})
}
