package query

import (
	"strings"

	"github.com/goliatone/go-qonto/core"
)

const (
	TypeGetOrganization    = "qonto.query.organization.get"
	TypeGetTransactionList = "qonto.query.transactions.list"
	TypeGetTransaction     = "qonto.query.transactions.get"
	TypeAllTransactions    = "qonto.query.transactions.all"
	TypeGetMembershipList  = "qonto.query.memberships.list"
	TypeGetLabelList       = "qonto.query.labels.list"
	TypeGetAttachment      = "qonto.query.attachments.get"
	TypeGetAttachmentList  = "qonto.query.attachments.list"
)

type GetOrganizationMessage struct{}

func (GetOrganizationMessage) Type() string { return TypeGetOrganization }

type GetTransactionListMessage struct {
	Request core.TransactionListRequest
}

func (GetTransactionListMessage) Type() string { return TypeGetTransactionList }

func (m GetTransactionListMessage) Validate() error {
	if strings.TrimSpace(m.Request.BankAccountSlug) == "" {
		return queryValidationError("bank_account_slug", "bank account slug is required")
	}
	return nil
}

type GetTransactionMessage struct {
	InternalID string
}

func (GetTransactionMessage) Type() string { return TypeGetTransaction }

func (m GetTransactionMessage) Validate() error {
	if strings.TrimSpace(m.InternalID) == "" {
		return queryValidationError("internal_id", "transaction internal id is required")
	}
	return nil
}

// AllTransactionsMessage walks every page of Request starting at its
// pagination.
type AllTransactionsMessage struct {
	Request core.TransactionListRequest
}

func (AllTransactionsMessage) Type() string { return TypeAllTransactions }

func (m AllTransactionsMessage) Validate() error {
	return GetTransactionListMessage(m).Validate()
}

type GetMembershipListMessage struct {
	Pagination core.Pagination
}

func (GetMembershipListMessage) Type() string { return TypeGetMembershipList }

type GetLabelListMessage struct {
	Pagination core.Pagination
}

func (GetLabelListMessage) Type() string { return TypeGetLabelList }

type GetAttachmentMessage struct {
	AttachmentID string
}

func (GetAttachmentMessage) Type() string { return TypeGetAttachment }

func (m GetAttachmentMessage) Validate() error {
	if strings.TrimSpace(m.AttachmentID) == "" {
		return queryValidationError("attachment_id", "attachment id is required")
	}
	return nil
}

type GetAttachmentListMessage struct {
	TransactionInternalID string
}

func (GetAttachmentListMessage) Type() string { return TypeGetAttachmentList }

func (m GetAttachmentListMessage) Validate() error {
	if strings.TrimSpace(m.TransactionInternalID) == "" {
		return queryValidationError("transaction_internal_id", "transaction internal id is required")
	}
	return nil
}
