// Package future starts each operation on the executor pool and returns a
// Future for its outcome.
package future

import (
	"context"
	"io"

	"github.com/goliatone/go-job/queue/worker"
	"github.com/goliatone/go-qonto/core"
	"github.com/goliatone/go-qonto/executor"
)

type Option func(*Client)

// WithPool shares an existing pool; the client does not close it.
func WithPool(pool *executor.Pool) Option {
	return func(c *Client) {
		c.pool = pool
	}
}

func WithHooks(hooks ...worker.Hook) Option {
	return func(c *Client) {
		c.hooks = append(c.hooks, hooks...)
	}
}

func WithContext(ctx context.Context) Option {
	return func(c *Client) {
		if ctx != nil {
			c.base = ctx
		}
	}
}

type Client struct {
	core     *core.Client
	pool     *executor.Pool
	ownsPool bool
	hooks    []worker.Hook
	base     context.Context
}

func New(client *core.Client, options ...Option) *Client {
	c := &Client{core: client, base: context.Background()}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.pool == nil {
		cfg := client.Config().Executor
		c.pool = executor.New(executor.Config{
			Workers:   cfg.Workers,
			QueueSize: cfg.QueueSize,
			Hooks:     c.hooks,
			Logger:    client.Logger(),
			Context:   c.base,
		})
		c.ownsPool = true
	}
	return c
}

func (c *Client) Core() *core.Client {
	return c.core
}

// Close waits for started futures to complete, then closes the core client.
func (c *Client) Close() error {
	if c.ownsPool {
		_ = c.pool.Close()
	}
	return c.core.Close()
}

// Empty is the value of futures for operations that only report an error.
type Empty struct{}

func start[T any](c *Client, name string, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	executor.CallOr(c.pool, name, fn, f.complete, c.core.Closed)
	return f
}

func startErr(c *Client, name string, fn func(ctx context.Context) error) *Future[Empty] {
	return start(c, name, func(ctx context.Context) (Empty, error) {
		return Empty{}, fn(ctx)
	})
}

func (c *Client) GetOrganization() *Future[core.Organization] {
	return start(c, "organizations.get", c.core.Organizations.GetOrganization)
}

func (c *Client) GetTransactionList(req core.TransactionListRequest) *Future[core.Page[core.Transaction]] {
	return start(c, "transactions.list", func(ctx context.Context) (core.Page[core.Transaction], error) {
		return c.core.Transactions.GetTransactionList(ctx, req)
	})
}

func (c *Client) GetTransaction(internalID string) *Future[core.Transaction] {
	return start(c, "transactions.get", func(ctx context.Context) (core.Transaction, error) {
		return c.core.Transactions.GetTransaction(ctx, internalID)
	})
}

func (c *Client) GetMembershipList(pagination core.Pagination) *Future[core.Page[core.Membership]] {
	return start(c, "memberships.list", func(ctx context.Context) (core.Page[core.Membership], error) {
		return c.core.Memberships.GetMembershipList(ctx, pagination)
	})
}

func (c *Client) GetLabelList(pagination core.Pagination) *Future[core.Page[core.Label]] {
	return start(c, "labels.list", func(ctx context.Context) (core.Page[core.Label], error) {
		return c.core.Labels.GetLabelList(ctx, pagination)
	})
}

func (c *Client) GetAttachment(id string) *Future[core.Attachment] {
	return start(c, "attachments.get", func(ctx context.Context) (core.Attachment, error) {
		return c.core.Attachments.GetAttachment(ctx, id)
	})
}

func (c *Client) GetAttachmentList(transactionInternalID string) *Future[[]core.Attachment] {
	return start(c, "attachments.list", func(ctx context.Context) ([]core.Attachment, error) {
		return c.core.Attachments.GetAttachmentList(ctx, transactionInternalID)
	})
}

func (c *Client) AddAttachment(transactionInternalID string, attachmentType core.AttachmentType, input io.Reader) *Future[Empty] {
	return startErr(c, "attachments.add", func(ctx context.Context) error {
		return c.core.Attachments.AddAttachment(ctx, transactionInternalID, attachmentType, input)
	})
}

func (c *Client) RemoveAttachment(transactionInternalID, attachmentID string) *Future[Empty] {
	return startErr(c, "attachments.remove", func(ctx context.Context) error {
		return c.core.Attachments.RemoveAttachment(ctx, transactionInternalID, attachmentID)
	})
}

func (c *Client) RemoveAllAttachments(transactionInternalID string) *Future[Empty] {
	return startErr(c, "attachments.remove_all", func(ctx context.Context) error {
		return c.core.Attachments.RemoveAllAttachments(ctx, transactionInternalID)
	})
}

func (c *Client) GetLoginURI(credentials core.OAuthCredentials, scopes []core.OAuthScope, uniqueState string) (string, error) {
	return c.core.OAuth.GetLoginURI(credentials, scopes, uniqueState)
}

func (c *Client) ExtractCodeAndUniqueStateFromRedirectURI(redirectURI string) (core.OAuthCodeAndUniqueState, bool) {
	return c.core.OAuth.ExtractCodeAndUniqueStateFromRedirectURI(redirectURI)
}

func (c *Client) GetTokens(credentials core.OAuthCredentials, code string) *Future[core.OAuthTokens] {
	return start(c, "oauth.get_tokens", func(ctx context.Context) (core.OAuthTokens, error) {
		return c.core.OAuth.GetTokens(ctx, credentials, code)
	})
}

func (c *Client) RefreshTokens(credentials core.OAuthCredentials, tokens core.OAuthTokens) *Future[core.OAuthTokens] {
	return start(c, "oauth.refresh_tokens", func(ctx context.Context) (core.OAuthTokens, error) {
		return c.core.OAuth.RefreshTokens(ctx, credentials, tokens)
	})
}

func (c *Client) AllTransactions(req core.TransactionListRequest) *Future[[]core.Transaction] {
	return start(c, "transactions.all", func(ctx context.Context) ([]core.Transaction, error) {
		return core.CollectAll(ctx, core.TransactionPages(c.core.Transactions, req), req.Pagination)
	})
}

func (c *Client) AllMemberships(initial core.Pagination) *Future[[]core.Membership] {
	return start(c, "memberships.all", func(ctx context.Context) ([]core.Membership, error) {
		return core.CollectAll(ctx, core.MembershipPages(c.core.Memberships), initial)
	})
}

func (c *Client) AllLabels(initial core.Pagination) *Future[[]core.Label] {
	return start(c, "labels.all", func(ctx context.Context) ([]core.Label, error) {
		return core.CollectAll(ctx, core.LabelPages(c.core.Labels), initial)
	})
}
