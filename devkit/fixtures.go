package devkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goliatone/go-qonto/core"
)

const (
	FixtureLogin            = "acme-1234"
	FixtureSecretKey        = "s3cret"
	FixtureOrganizationSlug = "acme-1234"
	FixtureBankAccountSlug  = "acme-bank-account-1"
)

// NewClient builds a core client over transport with login/secret key auth.
func NewClient(transport core.Transport, options ...core.Option) (*core.Client, error) {
	options = append([]core.Option{core.WithTransport(transport)}, options...)
	return core.NewClient(core.Config{}, core.LoginSecretKeyAuthentication{
		Login:     FixtureLogin,
		SecretKey: FixtureSecretKey,
	}, options...)
}

const OrganizationJSON = `{
  "organization": {
    "slug": "acme-1234",
    "legal_name": "ACME SAS",
    "bank_accounts": [
      {
        "slug": "acme-bank-account-1",
        "iban": "FR7616798000010000005663951",
        "bic": "TRZOFR21XXX",
        "currency": "EUR",
        "balance_cents": 1234567,
        "authorized_balance_cents": 1200000
      }
    ]
  }
}`

// TransactionJSON renders one completed card debit with the given ids.
func TransactionJSON(displayID, internalID string) string {
	return fmt.Sprintf(`{
  "transaction_id": %q,
  "id": %q,
  "amount_cents": 1250,
  "attachment_ids": ["att-1"],
  "local_amount_cents": 1250,
  "side": "debit",
  "operation_type": "card",
  "category": "restaurant_and_bar",
  "currency": "EUR",
  "local_currency": "EUR",
  "label": "Chez Paul",
  "settled_at": "2024-03-02T10:15:00.000Z",
  "emitted_at": "2024-03-01T12:00:00.000Z",
  "updated_at": "2024-03-02T10:15:00.000Z",
  "status": "completed",
  "note": null,
  "reference": "lunch",
  "vat_amount_cents": 208,
  "vat_rate": 20.0,
  "initiator_id": "member-1",
  "label_ids": ["label-1"],
  "labels": [{"id": "label-1", "name": "Food", "parent_id": null}],
  "attachments": [],
  "attachment_lost": false,
  "attachment_required": true,
  "card_last_digits": "4242"
}`, displayID, internalID)
}

// Meta renders a list meta block; next and prev are omitted when zero.
func Meta(current, next, prev, perPage, totalPages, totalCount int) string {
	meta := map[string]any{
		"current_page": current,
		"next_page":    nil,
		"prev_page":    nil,
		"per_page":     perPage,
		"total_pages":  totalPages,
		"total_count":  totalCount,
	}
	if next > 0 {
		meta["next_page"] = next
	}
	if prev > 0 {
		meta["prev_page"] = prev
	}
	raw, _ := json.Marshal(meta)
	return string(raw)
}

func TransactionPageJSON(meta string, transactions ...string) string {
	return listJSON("transactions", meta, transactions)
}

func MembershipJSON(id, firstName, lastName string) string {
	return fmt.Sprintf(`{"id": %q, "first_name": %q, "last_name": %q}`, id, firstName, lastName)
}

func MembershipPageJSON(meta string, memberships ...string) string {
	return listJSON("memberships", meta, memberships)
}

func LabelJSON(id, name, parentID string) string {
	parent := "null"
	if parentID != "" {
		parent = strconv.Quote(parentID)
	}
	return fmt.Sprintf(`{"id": %q, "name": %q, "parent_id": %s}`, id, name, parent)
}

func LabelPageJSON(meta string, labels ...string) string {
	return listJSON("labels", meta, labels)
}

// AttachmentJSON renders an attachment with an available probative copy.
func AttachmentJSON(id string) string {
	return fmt.Sprintf(`{
  "id": %q,
  "file_name": "receipt.pdf",
  "created_at": "2024-03-02T10:20:00.000Z",
  "file_size": 2048,
  "file_content_type": "application/pdf",
  "url": "https://files.example.test/%s",
  "probative_attachment": {
    "status": "available",
    "file_name": "receipt-probative.pdf",
    "file_size": 4096,
    "file_content_type": "application/pdf",
    "url": "https://files.example.test/%s/probative"
  }
}`, id, id, id)
}

const TokensJSON = `{
  "access_token": "access-1",
  "refresh_token": "refresh-1",
  "expires_in": 3600,
  "token_type": "bearer",
  "scope": "offline_access openid organization.read attachment.write"
}`

// PagedRoute serves pages[k-1] for current_page=k. Pages are JSON list
// bodies; an out of range page answers 404.
func PagedRoute(pages ...string) RouteFunc {
	return func(req core.TransportRequest) (core.TransportResponse, error) {
		index, err := strconv.Atoi(req.Query.Get("current_page"))
		if err != nil || index < 1 || index > len(pages) {
			return JSONResponse(http.StatusNotFound, `{"message":"page not found"}`), nil
		}
		return JSONResponse(http.StatusOK, pages[index-1]), nil
	}
}

func listJSON(key, meta string, items []string) string {
	body := "["
	for i, item := range items {
		if i > 0 {
			body += ","
		}
		body += item
	}
	body += "]"
	return fmt.Sprintf(`{%q: %s, "meta": %s}`, key, body, meta)
}
