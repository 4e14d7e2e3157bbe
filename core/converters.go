package core

import (
	"sort"
	"time"
)

// EnumCodec maps a domain enum to its wire string and back. Unknown values
// fail with a conversion error in both directions.
type EnumCodec[M comparable] struct {
	field   string
	toAPI   map[M]string
	fromAPI map[string]M
}

func newEnumCodec[M comparable](field string, pairs map[M]string) EnumCodec[M] {
	fromAPI := make(map[string]M, len(pairs))
	for model, api := range pairs {
		fromAPI[api] = model
	}
	return EnumCodec[M]{field: field, toAPI: pairs, fromAPI: fromAPI}
}

func (c EnumCodec[M]) ModelToAPI(value M) (string, error) {
	api, ok := c.toAPI[value]
	if !ok {
		return "", conversionError(c.field, value)
	}
	return api, nil
}

func (c EnumCodec[M]) APIToModel(value string) (M, error) {
	model, ok := c.fromAPI[value]
	if !ok {
		var zero M
		return zero, conversionError(c.field, value)
	}
	return model, nil
}

// APIValues lists the known wire strings, sorted.
func (c EnumCodec[M]) APIValues() []string {
	values := make([]string, 0, len(c.fromAPI))
	for value := range c.fromAPI {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

var (
	TransactionStatusCodec = newEnumCodec("transaction status", map[TransactionStatus]string{
		TransactionStatusPending:   "pending",
		TransactionStatusReversed:  "reversed",
		TransactionStatusDeclined:  "declined",
		TransactionStatusCompleted: "completed",
	})

	TransactionSideCodec = newEnumCodec("transaction side", map[TransactionSide]string{
		TransactionSideCredit: "credit",
		TransactionSideDebit:  "debit",
	})

	TransactionOperationTypeCodec = newEnumCodec("transaction operation type", map[TransactionOperationType]string{
		TransactionOperationTransfer:    "transfer",
		TransactionOperationCard:        "card",
		TransactionOperationDirectDebit: "direct_debit",
		TransactionOperationIncome:      "income",
		TransactionOperationQontoFee:    "qonto_fee",
		TransactionOperationCheck:       "cheque",
	})

	TransactionCategoryCodec = newEnumCodec("transaction category", map[TransactionCategory]string{
		TransactionCategoryATM:                  "atm",
		TransactionCategoryFees:                 "fees",
		TransactionCategoryFinance:              "finance",
		TransactionCategoryFoodAndGrocery:       "food_and_grocery",
		TransactionCategoryGasStation:           "gas_station",
		TransactionCategoryHardwareAndEquipment: "hardware_and_equipment",
		TransactionCategoryHotelAndLodging:      "hotel_and_lodging",
		TransactionCategoryInsurance:            "insurance",
		TransactionCategoryITAndElectronics:     "it_and_electronics",
		TransactionCategoryLegalAndAccounting:   "legal_and_accounting",
		TransactionCategoryLogistics:            "logistics",
		TransactionCategoryManufacturing:        "manufacturing",
		TransactionCategoryMarketing:            "marketing",
		TransactionCategoryOfficeRental:         "office_rental",
		TransactionCategoryOfficeSupply:         "office_supply",
		TransactionCategoryOnlineService:        "online_service",
		TransactionCategoryOtherExpense:         "other_expense",
		TransactionCategoryOtherIncome:          "other_income",
		TransactionCategoryOtherService:         "other_service",
		TransactionCategoryRefund:               "refund",
		TransactionCategoryRestaurantAndBar:     "restaurant_and_bar",
		TransactionCategorySalary:               "salary",
		TransactionCategorySales:                "sales",
		TransactionCategorySubscription:         "subscription",
		TransactionCategoryTax:                  "tax",
		TransactionCategoryTransport:            "transport",
		TransactionCategoryTreasuryAndInterco:   "treasury_and_interco",
		TransactionCategoryUtility:              "utility",
		TransactionCategoryVoucher:              "voucher",
	})

	ProbativeAttachmentStatusCodec = newEnumCodec("probative attachment status", map[ProbativeAttachmentStatus]string{
		ProbativeAttachmentStatusPending:     "pending",
		ProbativeAttachmentStatusAvailable:   "available",
		ProbativeAttachmentStatusUnavailable: "unavailable",
		ProbativeAttachmentStatusCorrupted:   "corrupted",
	})

	SortFieldCodec = newEnumCodec("sort field", map[SortField]string{
		SortFieldUpdatedDate: "updated_at",
		SortFieldSettledDate: "settled_at",
	})

	SortOrderCodec = newEnumCodec("sort order", map[SortOrder]string{
		SortOrderDescending: "desc",
		SortOrderAscending:  "asc",
	})

	OAuthScopeCodec = newEnumCodec("oauth scope", map[OAuthScope]string{
		OAuthScopeOfflineAccess:    "offline_access",
		OAuthScopeOpenID:           "openid",
		OAuthScopeOrganizationRead: "organization.read",
		OAuthScopeAttachmentWrite:  "attachment.write",
	})
)

// sortBy builds the "<field>:<order>" sort key.
func sortBy(field SortField, order SortOrder) (string, error) {
	apiField, err := SortFieldCodec.ModelToAPI(field)
	if err != nil {
		return "", err
	}
	apiOrder, err := SortOrderCodec.ModelToAPI(order)
	if err != nil {
		return "", err
	}
	return apiField + ":" + apiOrder, nil
}

func convertOrganization(in apiOrganization) Organization {
	accounts := make([]BankAccount, 0, len(in.BankAccounts))
	for _, account := range in.BankAccounts {
		accounts = append(accounts, BankAccount{
			Slug:                   account.Slug,
			IBAN:                   account.IBAN,
			BIC:                    account.BIC,
			Currency:               account.Currency,
			BalanceCents:           account.BalanceCents,
			AuthorizedBalanceCents: account.AuthorizedBalanceCents,
		})
	}
	return Organization{Slug: in.Slug, LegalName: in.LegalName, BankAccounts: accounts}
}

func convertTransaction(in apiTransaction) (Transaction, error) {
	side, err := TransactionSideCodec.APIToModel(in.Side)
	if err != nil {
		return Transaction{}, err
	}
	operationType, err := TransactionOperationTypeCodec.APIToModel(in.OperationType)
	if err != nil {
		return Transaction{}, err
	}
	category, err := TransactionCategoryCodec.APIToModel(in.Category)
	if err != nil {
		return Transaction{}, err
	}
	status, err := TransactionStatusCodec.APIToModel(in.Status)
	if err != nil {
		return Transaction{}, err
	}
	settled, err := parseOptionalDate("settled_at", in.SettledAt)
	if err != nil {
		return Transaction{}, err
	}
	emitted, err := parseDateField("emitted_at", in.EmittedAt)
	if err != nil {
		return Transaction{}, err
	}
	updated, err := parseDateField("updated_at", in.UpdatedAt)
	if err != nil {
		return Transaction{}, err
	}
	attachments, err := convertAttachments(in.Attachments)
	if err != nil {
		return Transaction{}, err
	}

	out := Transaction{
		ID:                 in.TransactionID,
		InternalID:         in.ID,
		AmountCents:        in.AmountCents,
		LocalAmountCents:   in.LocalAmountCents,
		Side:               side,
		OperationType:      operationType,
		Category:           category,
		Currency:           in.Currency,
		LocalCurrency:      in.LocalCurrency,
		Counterparty:       in.Label,
		SettledDate:        settled,
		EmittedDate:        emitted,
		UpdatedDate:        updated,
		Status:             status,
		Note:               derefString(in.Note),
		Reference:          derefString(in.Reference),
		InitiatorID:        derefString(in.InitiatorID),
		LabelIDs:           nonNilStrings(in.LabelIDs),
		Labels:             convertLabels(in.Labels),
		AttachmentIDs:      nonNilStrings(in.AttachmentIDs),
		Attachments:        attachments,
		AttachmentLost:     in.AttachmentLost,
		AttachmentRequired: in.AttachmentRequired,
	}
	if in.VATAmountCents != nil {
		vat := *in.VATAmountCents
		out.VATAmountCents = &vat
	}
	if in.VATRate != nil {
		rate := *in.VATRate
		out.VATRate = &rate
	}
	if operationType == TransactionOperationCard && in.CardLastDigits != nil {
		digits := *in.CardLastDigits
		out.CardLastDigits = &digits
	}
	return out, nil
}

func convertTransactions(in []apiTransaction) ([]Transaction, error) {
	out := make([]Transaction, 0, len(in))
	for _, item := range in {
		converted, err := convertTransaction(item)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func convertMemberships(in []apiMembership) []Membership {
	out := make([]Membership, 0, len(in))
	for _, item := range in {
		out = append(out, Membership{ID: item.ID, FirstName: item.FirstName, LastName: item.LastName})
	}
	return out
}

func convertLabels(in []apiLabel) []Label {
	out := make([]Label, 0, len(in))
	for _, item := range in {
		out = append(out, Label{ID: item.ID, Name: item.Name, ParentID: derefString(item.ParentID)})
	}
	return out
}

func convertAttachment(in apiAttachment) (Attachment, error) {
	created, err := parseDateField("created_at", in.CreatedAt)
	if err != nil {
		return Attachment{}, err
	}
	out := Attachment{
		ID:          in.ID,
		FileName:    in.FileName,
		CreatedDate: created,
		Size:        in.FileSize,
		ContentType: in.FileContentType,
		URL:         in.URL,
	}
	if in.ProbativeAttachment != nil {
		probative, err := convertProbativeAttachment(*in.ProbativeAttachment)
		if err != nil {
			return Attachment{}, err
		}
		out.Probative = &probative
	}
	return out, nil
}

func convertAttachments(in []apiAttachment) ([]Attachment, error) {
	out := make([]Attachment, 0, len(in))
	for _, item := range in {
		converted, err := convertAttachment(item)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func convertProbativeAttachment(in apiProbativeAttachment) (ProbativeAttachment, error) {
	status, err := ProbativeAttachmentStatusCodec.APIToModel(in.Status)
	if err != nil {
		return ProbativeAttachment{}, err
	}
	out := ProbativeAttachment{Status: status}
	if status == ProbativeAttachmentStatusAvailable {
		out.File = &ProbativeFile{
			FileName:    in.FileName,
			Size:        in.FileSize,
			ContentType: in.FileContentType,
			URL:         in.URL,
		}
	}
	return out, nil
}

func convertOAuthTokens(in apiOAuthTokens, now time.Time) (OAuthTokens, error) {
	if in.AccessToken == "" {
		return OAuthTokens{}, conversionError("access_token", "")
	}
	return OAuthTokens{
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		TokenType:    in.TokenType,
		ExpiresAt:    now.Add(time.Duration(in.ExpiresIn) * time.Second),
	}, nil
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string(nil), values...)
}
