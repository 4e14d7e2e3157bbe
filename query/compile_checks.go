package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-qonto/core"
)

var (
	_ gocmd.Querier[GetOrganizationMessage, core.Organization]              = (*GetOrganizationQuery)(nil)
	_ gocmd.Querier[GetTransactionListMessage, core.Page[core.Transaction]] = (*GetTransactionListQuery)(nil)
	_ gocmd.Querier[GetTransactionMessage, core.Transaction]                = (*GetTransactionQuery)(nil)
	_ gocmd.Querier[AllTransactionsMessage, []core.Transaction]             = (*AllTransactionsQuery)(nil)
	_ gocmd.Querier[GetMembershipListMessage, core.Page[core.Membership]]   = (*GetMembershipListQuery)(nil)
	_ gocmd.Querier[GetLabelListMessage, core.Page[core.Label]]             = (*GetLabelListQuery)(nil)
	_ gocmd.Querier[GetAttachmentMessage, core.Attachment]                  = (*GetAttachmentQuery)(nil)
	_ gocmd.Querier[GetAttachmentListMessage, []core.Attachment]            = (*GetAttachmentListQuery)(nil)
)

