package core

import "github.com/shopspring/decimal"

// Organization is the aggregate returned by GetOrganization. It owns the bank
// accounts in server order.
type Organization struct {
	Slug         string
	LegalName    string
	BankAccounts []BankAccount
}

// BankAccountBySlug returns the bank account with the given slug.
func (o Organization) BankAccountBySlug(slug string) (BankAccount, bool) {
	for _, account := range o.BankAccounts {
		if account.Slug == slug {
			return account, true
		}
	}
	return BankAccount{}, false
}

// BankAccount amounts are minor currency units.
type BankAccount struct {
	Slug                   string
	IBAN                   string
	BIC                    string
	Currency               string
	BalanceCents           int64
	AuthorizedBalanceCents int64
}

func (a BankAccount) Balance() decimal.Decimal {
	return centsToDecimal(a.BalanceCents)
}

func (a BankAccount) AuthorizedBalance() decimal.Decimal {
	return centsToDecimal(a.AuthorizedBalanceCents)
}

func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

type Membership struct {
	ID        string
	FirstName string
	LastName  string
}

// Label parent links are informational; ParentID is empty for root labels.
type Label struct {
	ID       string
	Name     string
	ParentID string
}

func (l Label) HasParent() bool {
	return l.ParentID != ""
}
