package qonto

import (
	"fmt"

	qontocommand "github.com/goliatone/go-qonto/command"
	"github.com/goliatone/go-qonto/core"
	qontoquery "github.com/goliatone/go-qonto/query"
)

type Commands struct {
	AddAttachment        *qontocommand.AddAttachmentCommand
	RemoveAttachment     *qontocommand.RemoveAttachmentCommand
	RemoveAllAttachments *qontocommand.RemoveAllAttachmentsCommand
	GetTokens            *qontocommand.GetTokensCommand
	RefreshTokens        *qontocommand.RefreshTokensCommand
}

type Queries struct {
	GetOrganization    *qontoquery.GetOrganizationQuery
	GetTransactionList *qontoquery.GetTransactionListQuery
	GetTransaction     *qontoquery.GetTransactionQuery
	AllTransactions    *qontoquery.AllTransactionsQuery
	GetMembershipList  *qontoquery.GetMembershipListQuery
	GetLabelList       *qontoquery.GetLabelListQuery
	GetAttachment      *qontoquery.GetAttachmentQuery
	GetAttachmentList  *qontoquery.GetAttachmentListQuery
}

// Facade groups go-command handlers over one client.
type Facade struct {
	client   *core.Client
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	sinks []qontocommand.TokenSink
}

// WithTokenSinks adds receivers for tokens obtained by the OAuth commands.
func WithTokenSinks(sinks ...qontocommand.TokenSink) FacadeOption {
	return func(options *facadeOptions) {
		options.sinks = append(options.sinks, sinks...)
	}
}

func NewFacade(client *core.Client, opts ...FacadeOption) (*Facade, error) {
	if client == nil {
		return nil, fmt.Errorf("qonto: client is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	facade := &Facade{client: client}
	facade.commands = Commands{
		AddAttachment:        qontocommand.NewAddAttachmentCommand(client.Attachments),
		RemoveAttachment:     qontocommand.NewRemoveAttachmentCommand(client.Attachments),
		RemoveAllAttachments: qontocommand.NewRemoveAllAttachmentsCommand(client.Attachments),
		GetTokens:            qontocommand.NewGetTokensCommand(client.OAuth, cfg.sinks...),
		RefreshTokens:        qontocommand.NewRefreshTokensCommand(client.OAuth, cfg.sinks...),
	}
	facade.queries = Queries{
		GetOrganization:    qontoquery.NewGetOrganizationQuery(client.Organizations),
		GetTransactionList: qontoquery.NewGetTransactionListQuery(client.Transactions),
		GetTransaction:     qontoquery.NewGetTransactionQuery(client.Transactions),
		AllTransactions:    qontoquery.NewAllTransactionsQuery(client.Transactions),
		GetMembershipList:  qontoquery.NewGetMembershipListQuery(client.Memberships),
		GetLabelList:       qontoquery.NewGetLabelListQuery(client.Labels),
		GetAttachment:      qontoquery.NewGetAttachmentQuery(client.Attachments),
		GetAttachmentList:  qontoquery.NewGetAttachmentListQuery(client.Attachments),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Client() *core.Client {
	if f == nil {
		return nil
	}
	return f.client
}
