package core

import "github.com/shopspring/decimal"

// Wire shapes of the API responses. Field names follow the server; mapping to
// the domain model happens in converters.go.

type apiMeta struct {
	CurrentPage int  `json:"current_page"`
	NextPage    *int `json:"next_page"`
	PrevPage    *int `json:"prev_page"`
	PerPage     int  `json:"per_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
}

type apiOrganizationEnvelope struct {
	Organization *apiOrganization `json:"organization"`
}

type apiOrganization struct {
	Slug         string           `json:"slug"`
	LegalName    string           `json:"legal_name"`
	BankAccounts []apiBankAccount `json:"bank_accounts"`
}

type apiBankAccount struct {
	Slug                   string `json:"slug"`
	IBAN                   string `json:"iban"`
	BIC                    string `json:"bic"`
	Currency               string `json:"currency"`
	BalanceCents           int64  `json:"balance_cents"`
	AuthorizedBalanceCents int64  `json:"authorized_balance_cents"`
}

type apiTransactionListEnvelope struct {
	Transactions []apiTransaction `json:"transactions"`
	Meta         apiMeta          `json:"meta"`
}

type apiTransactionEnvelope struct {
	Transaction *apiTransaction `json:"transaction"`
}

type apiTransaction struct {
	TransactionID      string           `json:"transaction_id"`
	ID                 string           `json:"id"`
	AmountCents        int64            `json:"amount_cents"`
	AttachmentIDs      []string         `json:"attachment_ids"`
	LocalAmountCents   int64            `json:"local_amount_cents"`
	Side               string           `json:"side"`
	OperationType      string           `json:"operation_type"`
	Category           string           `json:"category"`
	Currency           string           `json:"currency"`
	LocalCurrency      string           `json:"local_currency"`
	Label              string           `json:"label"`
	SettledAt          *string          `json:"settled_at"`
	EmittedAt          string           `json:"emitted_at"`
	UpdatedAt          string           `json:"updated_at"`
	Status             string           `json:"status"`
	Note               *string          `json:"note"`
	Reference          *string          `json:"reference"`
	VATAmountCents     *int64           `json:"vat_amount_cents"`
	VATRate            *decimal.Decimal `json:"vat_rate"`
	InitiatorID        *string          `json:"initiator_id"`
	LabelIDs           []string         `json:"label_ids"`
	Labels             []apiLabel       `json:"labels"`
	Attachments        []apiAttachment  `json:"attachments"`
	AttachmentLost     bool             `json:"attachment_lost"`
	AttachmentRequired bool             `json:"attachment_required"`
	CardLastDigits     *string          `json:"card_last_digits"`
}

type apiMembershipListEnvelope struct {
	Memberships []apiMembership `json:"memberships"`
	Meta        apiMeta         `json:"meta"`
}

type apiMembership struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type apiLabelListEnvelope struct {
	Labels []apiLabel `json:"labels"`
	Meta   apiMeta    `json:"meta"`
}

type apiLabel struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

type apiAttachmentEnvelope struct {
	Attachment *apiAttachment `json:"attachment"`
}

type apiAttachmentListEnvelope struct {
	Attachments []apiAttachment `json:"attachments"`
}

type apiAttachment struct {
	ID                  string                  `json:"id"`
	FileName            string                  `json:"file_name"`
	CreatedAt           string                  `json:"created_at"`
	FileSize            int64                   `json:"file_size"`
	FileContentType     string                  `json:"file_content_type"`
	URL                 string                  `json:"url"`
	ProbativeAttachment *apiProbativeAttachment `json:"probative_attachment"`
}

type apiProbativeAttachment struct {
	Status          string `json:"status"`
	FileName        string `json:"file_name"`
	FileSize        int64  `json:"file_size"`
	FileContentType string `json:"file_content_type"`
	URL             string `json:"url"`
}

type apiOAuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
