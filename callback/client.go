// Package callback runs each operation on the executor pool and hands the
// outcome to a handler exactly once, on a pool goroutine.
package callback

import (
	"context"
	"io"

	"github.com/goliatone/go-job/queue/worker"
	"github.com/goliatone/go-qonto/core"
	"github.com/goliatone/go-qonto/executor"
)

// Result carries either a value or the error the operation failed with.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

type Handler[T any] func(Result[T])

// ErrorHandler receives the outcome of operations without a value; err is nil
// on success.
type ErrorHandler func(err error)

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

// Close waits for submitted calls to deliver, then closes the core client.
// It must not be called from inside a handler.
func (c *Client) Close() error {
	if c.ownsPool {
		_ = c.pool.Close()
	}
	return c.core.Close()
}

func run[T any](c *Client, name string, fn func(ctx context.Context) (T, error), handler Handler[T]) {
	executor.CallOr(c.pool, name, fn, func(value T, err error) {
		if handler != nil {
			handler(Result[T]{Value: value, Err: err})
		}
	}, c.core.Closed)
}

func runErr(c *Client, name string, fn func(ctx context.Context) error, handler ErrorHandler) {
	executor.CallOr(c.pool, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, func(_ struct{}, err error) {
		if handler != nil {
			handler(err)
		}
	}, c.core.Closed)
}

func (c *Client) GetOrganization(handler Handler[core.Organization]) {
	run(c, "organizations.get", c.core.Organizations.GetOrganization, handler)
}

func (c *Client) GetTransactionList(req core.TransactionListRequest, handler Handler[core.Page[core.Transaction]]) {
	run(c, "transactions.list", func(ctx context.Context) (core.Page[core.Transaction], error) {
		return c.core.Transactions.GetTransactionList(ctx, req)
	}, handler)
}

func (c *Client) GetTransaction(internalID string, handler Handler[core.Transaction]) {
	run(c, "transactions.get", func(ctx context.Context) (core.Transaction, error) {
		return c.core.Transactions.GetTransaction(ctx, internalID)
	}, handler)
}

func (c *Client) GetMembershipList(pagination core.Pagination, handler Handler[core.Page[core.Membership]]) {
	run(c, "memberships.list", func(ctx context.Context) (core.Page[core.Membership], error) {
		return c.core.Memberships.GetMembershipList(ctx, pagination)
	}, handler)
}

func (c *Client) GetLabelList(pagination core.Pagination, handler Handler[core.Page[core.Label]]) {
	run(c, "labels.list", func(ctx context.Context) (core.Page[core.Label], error) {
		return c.core.Labels.GetLabelList(ctx, pagination)
	}, handler)
}

func (c *Client) GetAttachment(id string, handler Handler[core.Attachment]) {
	run(c, "attachments.get", func(ctx context.Context) (core.Attachment, error) {
		return c.core.Attachments.GetAttachment(ctx, id)
	}, handler)
}

func (c *Client) GetAttachmentList(transactionInternalID string, handler Handler[[]core.Attachment]) {
	run(c, "attachments.list", func(ctx context.Context) ([]core.Attachment, error) {
		return c.core.Attachments.GetAttachmentList(ctx, transactionInternalID)
	}, handler)
}

func (c *Client) AddAttachment(transactionInternalID string, attachmentType core.AttachmentType, input io.Reader, handler ErrorHandler) {
	runErr(c, "attachments.add", func(ctx context.Context) error {
		return c.core.Attachments.AddAttachment(ctx, transactionInternalID, attachmentType, input)
	}, handler)
}

func (c *Client) RemoveAttachment(transactionInternalID, attachmentID string, handler ErrorHandler) {
	runErr(c, "attachments.remove", func(ctx context.Context) error {
		return c.core.Attachments.RemoveAttachment(ctx, transactionInternalID, attachmentID)
	}, handler)
}

func (c *Client) RemoveAllAttachments(transactionInternalID string, handler ErrorHandler) {
	runErr(c, "attachments.remove_all", func(ctx context.Context) error {
		return c.core.Attachments.RemoveAllAttachments(ctx, transactionInternalID)
	}, handler)
}

// GetLoginURI builds the URI synchronously; nothing is sent.
func (c *Client) GetLoginURI(credentials core.OAuthCredentials, scopes []core.OAuthScope, uniqueState string) (string, error) {
	return c.core.OAuth.GetLoginURI(credentials, scopes, uniqueState)
}

func (c *Client) ExtractCodeAndUniqueStateFromRedirectURI(redirectURI string) (core.OAuthCodeAndUniqueState, bool) {
	return c.core.OAuth.ExtractCodeAndUniqueStateFromRedirectURI(redirectURI)
}

func (c *Client) GetTokens(credentials core.OAuthCredentials, code string, handler Handler[core.OAuthTokens]) {
	run(c, "oauth.get_tokens", func(ctx context.Context) (core.OAuthTokens, error) {
		return c.core.OAuth.GetTokens(ctx, credentials, code)
	}, handler)
}

func (c *Client) RefreshTokens(credentials core.OAuthCredentials, tokens core.OAuthTokens, handler Handler[core.OAuthTokens]) {
	run(c, "oauth.refresh_tokens", func(ctx context.Context) (core.OAuthTokens, error) {
		return c.core.OAuth.RefreshTokens(ctx, credentials, tokens)
	}, handler)
}

// AllTransactions walks every page on a single pool goroutine and delivers
// the concatenated items once.
func (c *Client) AllTransactions(req core.TransactionListRequest, handler Handler[[]core.Transaction]) {
	run(c, "transactions.all", func(ctx context.Context) ([]core.Transaction, error) {
		return core.CollectAll(ctx, core.TransactionPages(c.core.Transactions, req), req.Pagination)
	}, handler)
}

func (c *Client) AllMemberships(initial core.Pagination, handler Handler[[]core.Membership]) {
	run(c, "memberships.all", func(ctx context.Context) ([]core.Membership, error) {
		return core.CollectAll(ctx, core.MembershipPages(c.core.Memberships), initial)
	}, handler)
}

func (c *Client) AllLabels(initial core.Pagination, handler Handler[[]core.Label]) {
	run(c, "labels.all", func(ctx context.Context) ([]core.Label, error) {
		return core.CollectAll(ctx, core.LabelPages(c.core.Labels), initial)
	}, handler)
}
