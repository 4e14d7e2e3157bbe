package core

import (
	"context"
	"io"
	"net/url"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// TransportRequest is a fully resolved request. When BodyReader is set it is
// streamed and Body is ignored; the transport never closes it.
type TransportRequest struct {
	Method      string
	URL         string
	Headers     map[string]string
	Query       url.Values
	Body        []byte
	BodyReader  io.Reader
	ContentType string
	Metadata    map[string]any
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

func (r TransportResponse) Successful() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport sends requests on behalf of the client. It is shared by all
// concurrent calls and configured once at construction.
type Transport interface {
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
	Close() error
}

// TransportFactory builds the transport from the resolved configuration.
type TransportFactory func(cfg Config, logger Logger) (Transport, error)

type Organizations interface {
	GetOrganization(ctx context.Context) (Organization, error)
}

type Transactions interface {
	GetTransactionList(ctx context.Context, req TransactionListRequest) (Page[Transaction], error)
	GetTransaction(ctx context.Context, internalID string) (Transaction, error)
}

type Memberships interface {
	GetMembershipList(ctx context.Context, pagination Pagination) (Page[Membership], error)
}

type Labels interface {
	GetLabelList(ctx context.Context, pagination Pagination) (Page[Label], error)
}

type Attachments interface {
	GetAttachment(ctx context.Context, id string) (Attachment, error)
	GetAttachmentList(ctx context.Context, transactionInternalID string) ([]Attachment, error)
	AddAttachment(ctx context.Context, transactionInternalID string, attachmentType AttachmentType, input io.Reader) error
	RemoveAttachment(ctx context.Context, transactionInternalID string, attachmentID string) error
	RemoveAllAttachments(ctx context.Context, transactionInternalID string) error
}

type OAuth interface {
	GetLoginURI(credentials OAuthCredentials, scopes []OAuthScope, uniqueState string) (string, error)
	ExtractCodeAndUniqueStateFromRedirectURI(redirectURI string) (OAuthCodeAndUniqueState, bool)
	GetTokens(ctx context.Context, credentials OAuthCredentials, code string) (OAuthTokens, error)
	RefreshTokens(ctx context.Context, credentials OAuthCredentials, tokens OAuthTokens) (OAuthTokens, error)
}
