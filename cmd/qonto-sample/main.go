// Command qonto-sample walks an organization's first bank account: it lists
// recent completed transactions two pages deep and collects every
// membership. Credentials come from QONTO_LOGIN and QONTO_SECRET_KEY; client
// settings from the other QONTO_* variables.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	qonto "github.com/goliatone/go-qonto"
	"github.com/goliatone/go-qonto/adapters/gologger"
	"github.com/goliatone/go-qonto/blocking"
	"github.com/goliatone/go-qonto/callback"
	"github.com/goliatone/go-qonto/core"
	"github.com/goliatone/go-qonto/future"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "qonto-sample:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger := newLogger(os.Stderr)
	options := append(
		gologger.ClientOptions(logger, logger),
		qonto.WithConfigProvider(core.NewCfgxConfigProvider(core.EnvConfigLoader{})),
	)
	client, err := qonto.New(qonto.Config{}, qonto.LoginSecretKeyAuthentication{
		Login:     os.Getenv("QONTO_LOGIN"),
		SecretKey: os.Getenv("QONTO_SECRET_KEY"),
	}, options...)
	if err != nil {
		return err
	}
	defer client.Close()

	blockingClient := qonto.NewBlocking(client, blocking.WithTimeout(30*time.Second))
	org, err := blockingClient.GetOrganization()
	if err != nil {
		return err
	}
	if len(org.BankAccounts) == 0 {
		return fmt.Errorf("organization %s has no bank account", org.Slug)
	}
	account := org.BankAccounts[0]
	fmt.Printf("%s (%s): balance %s %s\n", org.LegalName, account.Slug, account.Balance().StringFixed(2), account.Currency)

	from := time.Now().AddDate(0, -3, 0)
	req := core.TransactionListRequest{
		BankAccountSlug:  account.Slug,
		Status:           []core.TransactionStatus{core.TransactionStatusCompleted},
		SettledDateRange: &core.DateRange{From: &from},
		SortField:        core.SortFieldSettledDate,
		SortOrder:        core.SortOrderDescending,
		Pagination:       core.FirstPage(10),
	}
	page, err := blockingClient.GetTransactionList(req)
	if err != nil {
		return err
	}
	printTransactions(page.Items)
	if page.NextPagination != nil {
		req.Pagination = *page.NextPagination
		next, err := blockingClient.GetTransactionList(req)
		if err != nil {
			return err
		}
		printTransactions(next.Items)
	}

	futures := qonto.NewFuture(client, future.WithHooks(gologger.ExecutorHook(logger, logger)))
	defer futures.Close()
	members, err := futures.AllMemberships(core.FirstPage(0)).Await(ctx)
	if err != nil {
		return err
	}
	for _, member := range members {
		fmt.Printf("member %s %s\n", member.FirstName, member.LastName)
	}

	done := make(chan struct{})
	callbacks := qonto.NewCallback(client, callback.WithHooks(gologger.ExecutorHook(logger, logger)))
	callbacks.AllLabels(core.FirstPage(0), func(result callback.Result[[]core.Label]) {
		defer close(done)
		if !result.OK() {
			fmt.Fprintln(os.Stderr, "labels:", result.Err)
			return
		}
		fmt.Printf("%d labels\n", len(result.Value))
	})
	<-done
	return callbacks.Close()
}

// newLogger is both the client logger and its provider: the client and the
// executor hooks log through named children of it.
func newLogger(w io.Writer) *glog.BaseLogger {
	return glog.NewLogger(
		glog.WithName(gologger.LoggerName),
		glog.WithWriter(w),
		glog.WithLoggerTypeConsole(),
		glog.WithLevel("info"),
	)
}

func printTransactions(transactions []core.Transaction) {
	for _, tx := range transactions {
		fmt.Printf("%s %s %s %s\n", core.FormatDate(tx.EmittedDate), tx.Counterparty, tx.Amount().StringFixed(2), tx.Currency)
	}
}
