package devkit

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-qonto/core"
)

func TestFakeTransportRoutesByMethodAndPath(t *testing.T) {
	transport := NewFakeTransport().JSON(http.MethodGet, "organizations/0", http.StatusOK, OrganizationJSON)

	res, err := transport.Do(context.Background(), core.TransportRequest{
		Method: http.MethodGet,
		URL:    "https://thirdparty.qonto.com/v2/organizations/0",
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	missing, err := transport.Do(context.Background(), core.TransportRequest{
		Method: http.MethodDelete,
		URL:    "https://thirdparty.qonto.com/v2/organizations/0",
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected unrouted request to answer 404, got %d", missing.StatusCode)
	}
	if transport.RequestCount() != 2 {
		t.Fatalf("expected two captured requests, got %d", transport.RequestCount())
	}
}

func TestFakeTransportDrainsBodyReader(t *testing.T) {
	transport := NewFakeTransport().Handle(http.MethodPost, "token", func(req core.TransportRequest) (core.TransportResponse, error) {
		if string(req.Body) != "grant_type=refresh_token" {
			t.Fatalf("unexpected body %q", req.Body)
		}
		return JSONResponse(http.StatusOK, TokensJSON), nil
	})
	_, err := transport.Do(context.Background(), core.TransportRequest{
		Method:     http.MethodPost,
		URL:        "https://oauth.qonto.com/oauth2/token",
		BodyReader: strings.NewReader("grant_type=refresh_token"),
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if got := transport.Requests()[0].Body; string(got) != "grant_type=refresh_token" {
		t.Fatalf("expected captured body, got %q", got)
	}
}

func TestPagedRouteServesPagesByIndex(t *testing.T) {
	route := PagedRoute(
		MembershipPageJSON(Meta(1, 2, 0, 1, 2, 2), MembershipJSON("m-1", "Ada", "Lovelace")),
		MembershipPageJSON(Meta(2, 0, 1, 1, 2, 2), MembershipJSON("m-2", "Alan", "Turing")),
	)
	res, err := route(core.TransportRequest{Query: url.Values{"current_page": {"2"}}})
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if !strings.Contains(string(res.Body), "m-2") {
		t.Fatalf("expected second page, got %s", res.Body)
	}
	res, _ = route(core.TransportRequest{Query: url.Values{"current_page": {"3"}}})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing page, got %d", res.StatusCode)
	}
}
