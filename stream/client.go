// Package stream exposes each operation as a lazy single-value sequence. No
// request is sent until the sequence is ranged over, and every range sends
// exactly one request and yields exactly once.
package stream

import (
	"context"
	"io"
	"iter"

	"github.com/goliatone/go-qonto/core"
)

// Empty is yielded by operations that only report an error.
type Empty struct{}

type Client struct {
	core *core.Client
}

func New(client *core.Client) *Client {
	return &Client{core: client}
}

func (c *Client) Core() *core.Client {
	return c.core
}

func (c *Client) Close() error {
	return c.core.Close()
}

// single defers fn until the sequence is ranged over.
func single[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if ctx == nil {
			ctx = context.Background()
		}
		value, err := fn(ctx)
		yield(value, err)
	}
}

func singleErr(ctx context.Context, fn func(ctx context.Context) error) iter.Seq2[Empty, error] {
	return single(ctx, func(ctx context.Context) (Empty, error) {
		return Empty{}, fn(ctx)
	})
}

func (c *Client) GetOrganization(ctx context.Context) iter.Seq2[core.Organization, error] {
	return single(ctx, c.core.Organizations.GetOrganization)
}

func (c *Client) GetTransactionList(ctx context.Context, req core.TransactionListRequest) iter.Seq2[core.Page[core.Transaction], error] {
	return single(ctx, func(ctx context.Context) (core.Page[core.Transaction], error) {
		return c.core.Transactions.GetTransactionList(ctx, req)
	})
}

func (c *Client) GetTransaction(ctx context.Context, internalID string) iter.Seq2[core.Transaction, error] {
	return single(ctx, func(ctx context.Context) (core.Transaction, error) {
		return c.core.Transactions.GetTransaction(ctx, internalID)
	})
}

func (c *Client) GetMembershipList(ctx context.Context, pagination core.Pagination) iter.Seq2[core.Page[core.Membership], error] {
	return single(ctx, func(ctx context.Context) (core.Page[core.Membership], error) {
		return c.core.Memberships.GetMembershipList(ctx, pagination)
	})
}

func (c *Client) GetLabelList(ctx context.Context, pagination core.Pagination) iter.Seq2[core.Page[core.Label], error] {
	return single(ctx, func(ctx context.Context) (core.Page[core.Label], error) {
		return c.core.Labels.GetLabelList(ctx, pagination)
	})
}

func (c *Client) GetAttachment(ctx context.Context, id string) iter.Seq2[core.Attachment, error] {
	return single(ctx, func(ctx context.Context) (core.Attachment, error) {
		return c.core.Attachments.GetAttachment(ctx, id)
	})
}

func (c *Client) GetAttachmentList(ctx context.Context, transactionInternalID string) iter.Seq2[[]core.Attachment, error] {
	return single(ctx, func(ctx context.Context) ([]core.Attachment, error) {
		return c.core.Attachments.GetAttachmentList(ctx, transactionInternalID)
	})
}

// AddAttachment reads input once per range; ranging twice over the same
// sequence needs a reader that can be consumed twice.
func (c *Client) AddAttachment(ctx context.Context, transactionInternalID string, attachmentType core.AttachmentType, input io.Reader) iter.Seq2[Empty, error] {
	return singleErr(ctx, func(ctx context.Context) error {
		return c.core.Attachments.AddAttachment(ctx, transactionInternalID, attachmentType, input)
	})
}

func (c *Client) RemoveAttachment(ctx context.Context, transactionInternalID, attachmentID string) iter.Seq2[Empty, error] {
	return singleErr(ctx, func(ctx context.Context) error {
		return c.core.Attachments.RemoveAttachment(ctx, transactionInternalID, attachmentID)
	})
}

func (c *Client) RemoveAllAttachments(ctx context.Context, transactionInternalID string) iter.Seq2[Empty, error] {
	return singleErr(ctx, func(ctx context.Context) error {
		return c.core.Attachments.RemoveAllAttachments(ctx, transactionInternalID)
	})
}

func (c *Client) GetLoginURI(credentials core.OAuthCredentials, scopes []core.OAuthScope, uniqueState string) (string, error) {
	return c.core.OAuth.GetLoginURI(credentials, scopes, uniqueState)
}

func (c *Client) ExtractCodeAndUniqueStateFromRedirectURI(redirectURI string) (core.OAuthCodeAndUniqueState, bool) {
	return c.core.OAuth.ExtractCodeAndUniqueStateFromRedirectURI(redirectURI)
}

func (c *Client) GetTokens(ctx context.Context, credentials core.OAuthCredentials, code string) iter.Seq2[core.OAuthTokens, error] {
	return single(ctx, func(ctx context.Context) (core.OAuthTokens, error) {
		return c.core.OAuth.GetTokens(ctx, credentials, code)
	})
}

func (c *Client) RefreshTokens(ctx context.Context, credentials core.OAuthCredentials, tokens core.OAuthTokens) iter.Seq2[core.OAuthTokens, error] {
	return single(ctx, func(ctx context.Context) (core.OAuthTokens, error) {
		return c.core.OAuth.RefreshTokens(ctx, credentials, tokens)
	})
}

func (c *Client) AllTransactions(ctx context.Context, req core.TransactionListRequest) iter.Seq2[[]core.Transaction, error] {
	return single(ctx, func(ctx context.Context) ([]core.Transaction, error) {
		return core.CollectAll(ctx, core.TransactionPages(c.core.Transactions, req), req.Pagination)
	})
}

func (c *Client) AllMemberships(ctx context.Context, initial core.Pagination) iter.Seq2[[]core.Membership, error] {
	return single(ctx, func(ctx context.Context) ([]core.Membership, error) {
		return core.CollectAll(ctx, core.MembershipPages(c.core.Memberships), initial)
	})
}

func (c *Client) AllLabels(ctx context.Context, initial core.Pagination) iter.Seq2[[]core.Label, error] {
	return single(ctx, func(ctx context.Context) ([]core.Label, error) {
		return core.CollectAll(ctx, core.LabelPages(c.core.Labels), initial)
	})
}

func (c *Client) TransactionPages(ctx context.Context, req core.TransactionListRequest) iter.Seq2[core.Page[core.Transaction], error] {
	return Pages(ctx, core.TransactionPages(c.core.Transactions, req), req.Pagination)
}

func (c *Client) MembershipPages(ctx context.Context, initial core.Pagination) iter.Seq2[core.Page[core.Membership], error] {
	return Pages(ctx, core.MembershipPages(c.core.Memberships), initial)
}

func (c *Client) LabelPages(ctx context.Context, initial core.Pagination) iter.Seq2[core.Page[core.Label], error] {
	return Pages(ctx, core.LabelPages(c.core.Labels), initial)
}
