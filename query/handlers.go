package query

import (
	"context"

	"github.com/goliatone/go-qonto/core"
)

type GetOrganizationQuery struct {
	organizations core.Organizations
}

func NewGetOrganizationQuery(organizations core.Organizations) *GetOrganizationQuery {
	return &GetOrganizationQuery{organizations: organizations}
}

func (q *GetOrganizationQuery) Query(ctx context.Context, _ GetOrganizationMessage) (core.Organization, error) {
	if q == nil || q.organizations == nil {
		return core.Organization{}, queryDependencyError("query: organizations are required")
	}
	return q.organizations.GetOrganization(ctx)
}

type GetTransactionListQuery struct {
	transactions core.Transactions
}

func NewGetTransactionListQuery(transactions core.Transactions) *GetTransactionListQuery {
	return &GetTransactionListQuery{transactions: transactions}
}

func (q *GetTransactionListQuery) Query(ctx context.Context, msg GetTransactionListMessage) (core.Page[core.Transaction], error) {
	if q == nil || q.transactions == nil {
		return core.Page[core.Transaction]{}, queryDependencyError("query: transactions are required")
	}
	return q.transactions.GetTransactionList(ctx, msg.Request)
}

type GetTransactionQuery struct {
	transactions core.Transactions
}

func NewGetTransactionQuery(transactions core.Transactions) *GetTransactionQuery {
	return &GetTransactionQuery{transactions: transactions}
}

func (q *GetTransactionQuery) Query(ctx context.Context, msg GetTransactionMessage) (core.Transaction, error) {
	if q == nil || q.transactions == nil {
		return core.Transaction{}, queryDependencyError("query: transactions are required")
	}
	return q.transactions.GetTransaction(ctx, msg.InternalID)
}

type AllTransactionsQuery struct {
	transactions core.Transactions
}

func NewAllTransactionsQuery(transactions core.Transactions) *AllTransactionsQuery {
	return &AllTransactionsQuery{transactions: transactions}
}

func (q *AllTransactionsQuery) Query(ctx context.Context, msg AllTransactionsMessage) ([]core.Transaction, error) {
	if q == nil || q.transactions == nil {
		return nil, queryDependencyError("query: transactions are required")
	}
	return core.CollectAll(ctx, core.TransactionPages(q.transactions, msg.Request), msg.Request.Pagination)
}

type GetMembershipListQuery struct {
	memberships core.Memberships
}

func NewGetMembershipListQuery(memberships core.Memberships) *GetMembershipListQuery {
	return &GetMembershipListQuery{memberships: memberships}
}

func (q *GetMembershipListQuery) Query(ctx context.Context, msg GetMembershipListMessage) (core.Page[core.Membership], error) {
	if q == nil || q.memberships == nil {
		return core.Page[core.Membership]{}, queryDependencyError("query: memberships are required")
	}
	return q.memberships.GetMembershipList(ctx, msg.Pagination)
}

type GetLabelListQuery struct {
	labels core.Labels
}

func NewGetLabelListQuery(labels core.Labels) *GetLabelListQuery {
	return &GetLabelListQuery{labels: labels}
}

func (q *GetLabelListQuery) Query(ctx context.Context, msg GetLabelListMessage) (core.Page[core.Label], error) {
	if q == nil || q.labels == nil {
		return core.Page[core.Label]{}, queryDependencyError("query: labels are required")
	}
	return q.labels.GetLabelList(ctx, msg.Pagination)
}

type GetAttachmentQuery struct {
	attachments core.Attachments
}

func NewGetAttachmentQuery(attachments core.Attachments) *GetAttachmentQuery {
	return &GetAttachmentQuery{attachments: attachments}
}

func (q *GetAttachmentQuery) Query(ctx context.Context, msg GetAttachmentMessage) (core.Attachment, error) {
	if q == nil || q.attachments == nil {
		return core.Attachment{}, queryDependencyError("query: attachments are required")
	}
	return q.attachments.GetAttachment(ctx, msg.AttachmentID)
}

type GetAttachmentListQuery struct {
	attachments core.Attachments
}

func NewGetAttachmentListQuery(attachments core.Attachments) *GetAttachmentListQuery {
	return &GetAttachmentListQuery{attachments: attachments}
}

func (q *GetAttachmentListQuery) Query(ctx context.Context, msg GetAttachmentListMessage) ([]core.Attachment, error) {
	if q == nil || q.attachments == nil {
		return nil, queryDependencyError("query: attachments are required")
	}
	return q.attachments.GetAttachmentList(ctx, msg.TransactionInternalID)
}
