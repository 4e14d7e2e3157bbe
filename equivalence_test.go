package qonto

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/goliatone/go-qonto/callback"
	"github.com/goliatone/go-qonto/core"
	"github.com/goliatone/go-qonto/devkit"
)

type outcome struct {
	value core.Transaction
	err   error
}

// fetchThroughEveryFacade runs GetTransaction once per facade over the same
// client and returns the outcomes in blocking, callback, future, stream order.
func fetchThroughEveryFacade(t *testing.T, client *Client, internalID string) []outcome {
	t.Helper()
	outcomes := make([]outcome, 0, 4)

	value, err := NewBlocking(client).GetTransaction(internalID)
	outcomes = append(outcomes, outcome{value: value, err: err})

	callbacks := NewCallback(client)
	delivered := make(chan outcome, 1)
	callbacks.GetTransaction(internalID, func(result callback.Result[core.Transaction]) {
		delivered <- outcome{value: result.Value, err: result.Err}
	})
	outcomes = append(outcomes, <-delivered)

	futures := NewFuture(client)
	value, err = futures.GetTransaction(internalID).Await(context.Background())
	outcomes = append(outcomes, outcome{value: value, err: err})

	yields := 0
	for value, err := range NewStream(client).GetTransaction(context.Background(), internalID) {
		yields++
		outcomes = append(outcomes, outcome{value: value, err: err})
	}
	if yields != 1 {
		t.Fatalf("expected the stream to yield once, got %d", yields)
	}

	_ = callbacks.Close()
	_ = futures.Close()
	return outcomes
}

func TestFacadesDeliverIdenticalValues(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "transactions/tx-1", http.StatusOK,
		`{"transaction":`+devkit.TransactionJSON("acme-1234-t-1", "tx-1")+`}`)
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	outcomes := fetchThroughEveryFacade(t, client, "tx-1")
	if outcomes[0].err != nil {
		t.Fatalf("blocking get transaction: %v", outcomes[0].err)
	}
	if outcomes[0].value.InternalID != "tx-1" {
		t.Fatalf("unexpected transaction %+v", outcomes[0].value)
	}
	for i, got := range outcomes[1:] {
		if got.err != nil {
			t.Fatalf("facade %d failed: %v", i+1, got.err)
		}
		if !reflect.DeepEqual(got.value, outcomes[0].value) {
			t.Fatalf("facade %d delivered a different value: %+v", i+1, got.value)
		}
	}
	if transport.RequestCount() != 4 {
		t.Fatalf("expected one request per facade, got %d", transport.RequestCount())
	}
}

func TestFacadesDeliverIdenticalErrors(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "transactions/missing", http.StatusNotFound,
		`{"message":"Transaction not found"}`)
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	for i, got := range fetchThroughEveryFacade(t, client, "missing") {
		status, ok := core.APIStatusCode(got.err)
		if !ok || status != http.StatusNotFound {
			t.Fatalf("facade %d: expected 404 api error, got %v", i, got.err)
		}
		if core.ErrorTextCode(got.err) != core.ErrorAPI {
			t.Fatalf("facade %d: unexpected text code %q", i, core.ErrorTextCode(got.err))
		}
		if !reflect.DeepEqual(got.value, core.Transaction{}) {
			t.Fatalf("facade %d: expected zero value on failure, got %+v", i, got.value)
		}
	}
}

func TestFacadesReportClosedClientAlike(t *testing.T) {
	newClient := func() (*devkit.FakeTransport, *Client) {
		transport := devkit.NewFakeTransport().JSON(http.MethodGet, "organizations/0", http.StatusOK, devkit.OrganizationJSON)
		client, err := devkit.NewClient(transport)
		if err != nil {
			t.Fatalf("new client: %v", err)
		}
		return transport, client
	}

	facades := map[string]func(client *Client) error{
		"blocking": func(client *Client) error {
			facade := NewBlocking(client)
			_ = facade.Close()
			_, err := facade.GetOrganization()
			return err
		},
		"callback": func(client *Client) error {
			facade := NewCallback(client)
			_ = facade.Close()
			errs := make(chan error, 1)
			facade.GetOrganization(func(result callback.Result[core.Organization]) {
				errs <- result.Err
			})
			return <-errs
		},
		"future": func(client *Client) error {
			facade := NewFuture(client)
			_ = facade.Close()
			_, err := facade.GetOrganization().Await(context.Background())
			return err
		},
		"stream": func(client *Client) error {
			facade := NewStream(client)
			_ = facade.Close()
			var last error
			for _, err := range facade.GetOrganization(context.Background()) {
				last = err
			}
			return last
		},
	}
	for name, call := range facades {
		transport, client := newClient()
		err := call(client)
		if got := core.ErrorTextCode(err); got != core.ErrorClientClosed {
			t.Fatalf("%s: expected %s, got %q (%v)", name, core.ErrorClientClosed, got, err)
		}
		if transport.RequestCount() != 0 {
			t.Fatalf("%s: expected no request after close, got %d", name, transport.RequestCount())
		}
	}
}
