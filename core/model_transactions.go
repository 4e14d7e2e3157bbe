package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionSide int

const (
	TransactionSideCredit TransactionSide = iota + 1
	TransactionSideDebit
)

type TransactionOperationType int

const (
	TransactionOperationTransfer TransactionOperationType = iota + 1
	TransactionOperationCard
	TransactionOperationDirectDebit
	TransactionOperationIncome
	TransactionOperationQontoFee
	TransactionOperationCheck
)

type TransactionStatus int

const (
	TransactionStatusPending TransactionStatus = iota + 1
	TransactionStatusReversed
	TransactionStatusDeclined
	TransactionStatusCompleted
)

// AllTransactionStatuses lists every known status in declaration order.
var AllTransactionStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusReversed,
	TransactionStatusDeclined,
	TransactionStatusCompleted,
}

type TransactionCategory int

const (
	TransactionCategoryATM TransactionCategory = iota + 1
	TransactionCategoryFees
	TransactionCategoryFinance
	TransactionCategoryFoodAndGrocery
	TransactionCategoryGasStation
	TransactionCategoryHardwareAndEquipment
	TransactionCategoryHotelAndLodging
	TransactionCategoryInsurance
	TransactionCategoryITAndElectronics
	TransactionCategoryLegalAndAccounting
	TransactionCategoryLogistics
	TransactionCategoryManufacturing
	TransactionCategoryMarketing
	TransactionCategoryOfficeRental
	TransactionCategoryOfficeSupply
	TransactionCategoryOnlineService
	TransactionCategoryOtherExpense
	TransactionCategoryOtherIncome
	TransactionCategoryOtherService
	TransactionCategoryRefund
	TransactionCategoryRestaurantAndBar
	TransactionCategorySalary
	TransactionCategorySales
	TransactionCategorySubscription
	TransactionCategoryTax
	TransactionCategoryTransport
	TransactionCategoryTreasuryAndInterco
	TransactionCategoryUtility
	TransactionCategoryVoucher
)

// Transaction is an immutable snapshot of a bank account movement.
//
// ID is the display identifier (e.g. acme-corp-1111-1-transaction-123) and
// InternalID the opaque identifier accepted by GetTransaction and the
// attachment operations. The two are never interchangeable.
type Transaction struct {
	ID                 string
	InternalID         string
	AmountCents        int64
	LocalAmountCents   int64
	Side               TransactionSide
	OperationType      TransactionOperationType
	Category           TransactionCategory
	Currency           string
	LocalCurrency      string
	Counterparty       string
	SettledDate        *time.Time
	EmittedDate        time.Time
	UpdatedDate        time.Time
	Status             TransactionStatus
	Note               string
	Reference          string
	VATAmountCents     *int64
	VATRate            *decimal.Decimal
	InitiatorID        string
	LabelIDs           []string
	Labels             []Label
	AttachmentIDs      []string
	Attachments        []Attachment
	AttachmentLost     bool
	AttachmentRequired bool
	// CardLastDigits is only set for card operations.
	CardLastDigits *string
}

func (t Transaction) Amount() decimal.Decimal {
	return centsToDecimal(t.AmountCents)
}

func (t Transaction) LocalAmount() decimal.Decimal {
	return centsToDecimal(t.LocalAmountCents)
}

// VATAmount returns false when no VAT was filled in.
func (t Transaction) VATAmount() (decimal.Decimal, bool) {
	if t.VATAmountCents == nil {
		return decimal.Zero, false
	}
	return centsToDecimal(*t.VATAmountCents), true
}

func (t Transaction) IsSettled() bool {
	return t.SettledDate != nil
}

type SortField int

const (
	SortFieldSettledDate SortField = iota
	SortFieldUpdatedDate
)

type SortOrder int

const (
	SortOrderDescending SortOrder = iota
	SortOrderAscending
)

// DateRange bounds are independently optional; a nil bound is open-ended.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func NewDateRange(from, to time.Time) *DateRange {
	return &DateRange{From: &from, To: &to}
}

// TransactionListRequest zero values select the defaults: no status filter,
// no date ranges, settled date descending, first page.
type TransactionListRequest struct {
	BankAccountSlug  string
	Status           []TransactionStatus
	UpdatedDateRange *DateRange
	SettledDateRange *DateRange
	SortField        SortField
	SortOrder        SortOrder
	Pagination       Pagination
}
