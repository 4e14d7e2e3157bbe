package core

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type transactionsAPI struct {
	rt *runtime
}

// GetTransactionList lists one page of the transactions of a bank account.
func (a *transactionsAPI) GetTransactionList(ctx context.Context, req TransactionListRequest) (Page[Transaction], error) {
	ctx = normalizeContext(ctx)
	fields := map[string]any{"bank_account_slug": req.BankAccountSlug}
	return observe(ctx, a.rt, "qonto.transactions.list", fields, func() (Page[Transaction], error) {
		if err := requireID("bank account slug", req.BankAccountSlug); err != nil {
			return Page[Transaction]{}, err
		}
		query, err := a.listQuery(req)
		if err != nil {
			return Page[Transaction]{}, err
		}
		resp, err := a.rt.send(ctx, apiCall{
			operation: "transactions.list",
			method:    http.MethodGet,
			path:      "transactions",
			query:     query,
		})
		if err != nil {
			return Page[Transaction]{}, err
		}
		envelope, err := decodeJSON[apiTransactionListEnvelope](resp.Body, "transaction list")
		if err != nil {
			return Page[Transaction]{}, err
		}
		items, err := convertTransactions(envelope.Transactions)
		if err != nil {
			return Page[Transaction]{}, err
		}
		return pageFromMeta(items, envelope.Meta), nil
	})
}

func (a *transactionsAPI) listQuery(req TransactionListRequest) (url.Values, error) {
	query := url.Values{}
	query.Set("slug", req.BankAccountSlug)

	seen := map[TransactionStatus]struct{}{}
	for _, status := range req.Status {
		if _, ok := seen[status]; ok {
			continue
		}
		seen[status] = struct{}{}
		value, err := TransactionStatusCodec.ModelToAPI(status)
		if err != nil {
			return nil, err
		}
		query.Add("status[]", value)
	}
	addDateRange(query, "updated_at", req.UpdatedDateRange)
	addDateRange(query, "settled_at", req.SettledDateRange)

	sortKey, err := sortBy(req.SortField, req.SortOrder)
	if err != nil {
		return nil, err
	}
	query.Set("sort_by", sortKey)
	addPagination(query, req.Pagination.normalized(a.rt.cfg.Pagination.ItemsPerPage))
	addTransactionIncludes(query)
	return query, nil
}

// GetTransaction fetches one transaction by its internal id. The display id
// is not accepted by the server here.
func (a *transactionsAPI) GetTransaction(ctx context.Context, internalID string) (Transaction, error) {
	ctx = normalizeContext(ctx)
	fields := map[string]any{"transaction_internal_id": internalID}
	return observe(ctx, a.rt, "qonto.transactions.get", fields, func() (Transaction, error) {
		if err := requireID("transaction internal id", internalID); err != nil {
			return Transaction{}, err
		}
		query := url.Values{}
		addTransactionIncludes(query)
		resp, err := a.rt.send(ctx, apiCall{
			operation: "transactions.get",
			method:    http.MethodGet,
			path:      "transactions/" + url.PathEscape(internalID),
			query:     query,
		})
		if err != nil {
			return Transaction{}, err
		}
		envelope, err := decodeJSON[apiTransactionEnvelope](resp.Body, "transaction")
		if err != nil {
			return Transaction{}, err
		}
		if envelope.Transaction == nil {
			return Transaction{}, conversionError("transaction", "missing")
		}
		return convertTransaction(*envelope.Transaction)
	})
}

func addDateRange(query url.Values, prefix string, dates *DateRange) {
	if dates == nil {
		return
	}
	if dates.From != nil {
		query.Set(prefix+"_from", FormatDate(*dates.From))
	}
	if dates.To != nil {
		query.Set(prefix+"_to", FormatDate(*dates.To))
	}
}

func addPagination(query url.Values, pagination Pagination) {
	query.Set("current_page", strconv.Itoa(pagination.PageIndex))
	query.Set("per_page", strconv.Itoa(pagination.ItemsPerPage))
}

func addTransactionIncludes(query url.Values) {
	query.Add("includes[]", "labels")
	query.Add("includes[]", "attachments")
}

var _ Transactions = (*transactionsAPI)(nil)
