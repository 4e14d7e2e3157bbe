package core_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-qonto/core"
	"github.com/goliatone/go-qonto/devkit"
)

type trackingReader struct {
	*bytes.Reader
	closed bool
}

func (r *trackingReader) Close() error {
	r.closed = true
	return nil
}

func TestNewClientRequiresAuthenticationAndTransport(t *testing.T) {
	if _, err := core.NewClient(core.Config{}, nil, core.WithTransport(devkit.NewFakeTransport())); err == nil {
		t.Fatalf("expected missing authentication to fail")
	}
	auth := core.LoginSecretKeyAuthentication{Login: "login", SecretKey: "key"}
	if _, err := core.NewClient(core.Config{}, auth); err == nil {
		t.Fatalf("expected missing transport to fail")
	}
}

func TestClientSendsLoginSecretKeyHeaders(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "organizations/0", http.StatusOK, devkit.OrganizationJSON)
	client, err := devkit.NewClient(transport, core.WithClock(time.Now))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	org, err := client.Organizations.GetOrganization(context.Background())
	if err != nil {
		t.Fatalf("get organization: %v", err)
	}
	if org.Slug != devkit.FixtureOrganizationSlug || len(org.BankAccounts) != 1 {
		t.Fatalf("unexpected organization %+v", org)
	}
	if org.BankAccounts[0].BalanceCents != 1234567 {
		t.Fatalf("unexpected balance %d", org.BankAccounts[0].BalanceCents)
	}

	req := transport.Requests()[0]
	if got := req.Headers["Authorization"]; got != devkit.FixtureLogin+":"+devkit.FixtureSecretKey {
		t.Fatalf("unexpected authorization header %q", got)
	}
	if req.Headers["User-Agent"] != core.DefaultUserAgent || req.Headers["Accept"] != "application/json" {
		t.Fatalf("unexpected default headers %v", req.Headers)
	}
	if !strings.HasPrefix(req.URL, core.DefaultAPIBaseURL) {
		t.Fatalf("expected api base url, got %s", req.URL)
	}
}

func TestClosedClientRefusesOperations(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "organizations/0", http.StatusOK, devkit.OrganizationJSON)
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if transport.CloseCount() != 1 {
		t.Fatalf("expected transport closed once, got %d", transport.CloseCount())
	}
	if !client.Closed() {
		t.Fatalf("expected client to report closed")
	}

	if _, err := client.Organizations.GetOrganization(context.Background()); !core.IsClientClosed(err) {
		t.Fatalf("expected client closed error, got %v", err)
	}
	_, err = client.OAuth.GetLoginURI(core.OAuthCredentials{ClientID: "client"}, nil, "state")
	if !core.IsClientClosed(err) {
		t.Fatalf("expected client closed error for login uri, got %v", err)
	}
	err = client.Attachments.AddAttachment(context.Background(), "tx-1", core.AttachmentTypePDF, strings.NewReader("pdf"))
	if !core.IsClientClosed(err) {
		t.Fatalf("expected client closed error for upload, got %v", err)
	}
	if transport.RequestCount() != 0 {
		t.Fatalf("expected no request after close, got %d", transport.RequestCount())
	}

	extracted, ok := client.OAuth.ExtractCodeAndUniqueStateFromRedirectURI("https://app.example.test/cb?code=c1&state=s1")
	if !ok || extracted.Code != "c1" || extracted.UniqueState != "s1" {
		t.Fatalf("expected extraction to keep working after close, got %+v %v", extracted, ok)
	}
}

func TestGetLoginURI(t *testing.T) {
	client, err := devkit.NewClient(devkit.NewFakeTransport())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	credentials := core.OAuthCredentials{ClientID: "client-1", RedirectURI: "https://app.example.test/cb"}

	raw, err := client.OAuth.GetLoginURI(credentials, []core.OAuthScope{core.OAuthScopeOfflineAccess, core.OAuthScopeOrganizationRead}, "state-1")
	if err != nil {
		t.Fatalf("login uri: %v", err)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse login uri: %v", err)
	}
	if parsed.Host != "oauth.qonto.com" || parsed.Path != "/oauth2/auth" {
		t.Fatalf("unexpected login uri target %s", raw)
	}
	query := parsed.Query()
	if query.Get("client_id") != "client-1" || query.Get("redirect_uri") != credentials.RedirectURI {
		t.Fatalf("unexpected client params %v", query)
	}
	if query.Get("response_type") != "code" || query.Get("state") != "state-1" {
		t.Fatalf("unexpected flow params %v", query)
	}
	if query.Get("scope") != "offline_access organization.read" {
		t.Fatalf("unexpected scope %q", query.Get("scope"))
	}

	all, err := client.OAuth.GetLoginURI(credentials, nil, "state-2")
	if err != nil {
		t.Fatalf("login uri with default scopes: %v", err)
	}
	if !strings.Contains(all, "attachment.write") {
		t.Fatalf("expected every scope by default, got %s", all)
	}

	if _, err := client.OAuth.GetLoginURI(core.OAuthCredentials{}, nil, "state"); err == nil {
		t.Fatalf("expected missing client id to fail")
	}
}

func TestExtractCodeAndUniqueState(t *testing.T) {
	cases := []struct {
		uri string
		ok  bool
	}{
		{uri: "https://app.example.test/cb?code=abc&state=xyz", ok: true},
		{uri: "https://app.example.test/cb?code=abc", ok: false},
		{uri: "https://app.example.test/cb?state=xyz", ok: false},
		{uri: "://bad", ok: false},
	}
	for _, tc := range cases {
		if _, ok := core.ExtractCodeAndUniqueState(tc.uri); ok != tc.ok {
			t.Fatalf("%s: expected ok=%v", tc.uri, tc.ok)
		}
	}
}

func TestGetTokensUsesBasicClientAuthentication(t *testing.T) {
	now := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	transport := devkit.NewFakeTransport().JSON(http.MethodPost, "token", http.StatusOK, devkit.TokensJSON)
	auth := core.NewOAuthAuthentication(nil)
	client, err := core.NewClient(core.Config{}, auth, core.WithTransport(transport), core.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	credentials := core.OAuthCredentials{ClientID: "client-1", ClientSecret: "secret-1", RedirectURI: "https://app.example.test/cb"}

	tokens, err := client.OAuth.GetTokens(context.Background(), credentials, "code-1")
	if err != nil {
		t.Fatalf("get tokens: %v", err)
	}
	if tokens.AccessToken != "access-1" || tokens.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected tokens %+v", tokens)
	}
	if !tokens.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", tokens.ExpiresAt)
	}

	req := transport.Requests()[0]
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-1:secret-1"))
	if req.Headers["Authorization"] != wantAuth {
		t.Fatalf("unexpected token authorization %q", req.Headers["Authorization"])
	}
	form, err := url.ParseQuery(string(req.Body))
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	if form.Get("grant_type") != "authorization_code" || form.Get("code") != "code-1" {
		t.Fatalf("unexpected token form %v", form)
	}
	if !strings.HasPrefix(req.URL, core.DefaultOAuthBaseURL) {
		t.Fatalf("expected oauth base url, got %s", req.URL)
	}
}

func TestRefreshTokensRequiresRefreshToken(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodPost, "token", http.StatusOK, devkit.TokensJSON)
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	credentials := core.OAuthCredentials{ClientID: "client-1", ClientSecret: "secret-1"}
	if _, err := client.OAuth.RefreshTokens(context.Background(), credentials, core.OAuthTokens{}); err == nil {
		t.Fatalf("expected missing refresh token to fail")
	}
	if transport.RequestCount() != 0 {
		t.Fatalf("expected no request without refresh token")
	}

	if _, err := client.OAuth.RefreshTokens(context.Background(), credentials, core.OAuthTokens{RefreshToken: "refresh-0"}); err != nil {
		t.Fatalf("refresh tokens: %v", err)
	}
	form, _ := url.ParseQuery(string(transport.Requests()[0].Body))
	if form.Get("grant_type") != "refresh_token" || form.Get("refresh_token") != "refresh-0" {
		t.Fatalf("unexpected refresh form %v", form)
	}
}

func TestOAuthAuthenticationWithoutTokens(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "organizations/0", http.StatusOK, devkit.OrganizationJSON)
	client, err := core.NewClient(core.Config{}, core.NewOAuthAuthentication(nil), core.WithTransport(transport))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Organizations.GetOrganization(context.Background())
	if !core.IsOAuthTokensMissing(err) {
		t.Fatalf("expected missing tokens error, got %v", err)
	}
	if transport.RequestCount() != 0 {
		t.Fatalf("expected no request without tokens")
	}
}

func TestGetTransactionListQuery(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "transactions", http.StatusOK,
		devkit.TransactionPageJSON(devkit.Meta(1, 2, 0, 10, 2, 11), devkit.TransactionJSON("acme-1234-t-1", "tx-1")))
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	page, err := client.Transactions.GetTransactionList(context.Background(), core.TransactionListRequest{
		BankAccountSlug:  devkit.FixtureBankAccountSlug,
		Status:           []core.TransactionStatus{core.TransactionStatusCompleted, core.TransactionStatusPending, core.TransactionStatusCompleted},
		SettledDateRange: core.NewDateRange(from, to),
		SortField:        core.SortFieldUpdatedDate,
		SortOrder:        core.SortOrderAscending,
		Pagination:       core.Pagination{PageIndex: 1, ItemsPerPage: 10},
	})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "acme-1234-t-1" || page.Items[0].InternalID != "tx-1" {
		t.Fatalf("unexpected page items %+v", page.Items)
	}
	if page.NextPagination == nil || page.NextPagination.PageIndex != 2 {
		t.Fatalf("expected next page, got %+v", page.NextPagination)
	}

	query := transport.Requests()[0].Query
	if query.Get("slug") != devkit.FixtureBankAccountSlug {
		t.Fatalf("unexpected slug %q", query.Get("slug"))
	}
	if got := query["status[]"]; len(got) != 2 || got[0] != "completed" || got[1] != "pending" {
		t.Fatalf("unexpected status filter %v", got)
	}
	if query.Get("settled_at_from") != "2024-01-01T00:00:00.000Z" || query.Get("settled_at_to") != "2024-02-01T00:00:00.000Z" {
		t.Fatalf("unexpected settled range %v", query)
	}
	if query.Get("updated_at_from") != "" {
		t.Fatalf("expected no updated range")
	}
	if query.Get("sort_by") != "updated_at:asc" {
		t.Fatalf("unexpected sort %q", query.Get("sort_by"))
	}
	if query.Get("current_page") != "1" || query.Get("per_page") != "10" {
		t.Fatalf("unexpected pagination %v", query)
	}
	if got := query["includes[]"]; len(got) != 2 {
		t.Fatalf("expected includes, got %v", got)
	}
}

func TestGetTransactionListDefaults(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "transactions", http.StatusOK,
		devkit.TransactionPageJSON(devkit.Meta(1, 0, 0, 100, 1, 0)))
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	page, err := client.Transactions.GetTransactionList(context.Background(), core.TransactionListRequest{BankAccountSlug: "slug"})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if page.HasNext() || len(page.Items) != 0 {
		t.Fatalf("expected single empty page, got %+v", page)
	}
	query := transport.Requests()[0].Query
	if query.Get("sort_by") != "settled_at:desc" || query.Get("current_page") != "1" || query.Get("per_page") != "100" {
		t.Fatalf("unexpected default query %v", query)
	}
	if _, ok := query["status[]"]; ok {
		t.Fatalf("expected no status filter by default")
	}

	if _, err := client.Transactions.GetTransactionList(context.Background(), core.TransactionListRequest{}); err == nil {
		t.Fatalf("expected missing slug to fail")
	}
}

func TestAPIErrorCarriesStatus(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "transactions/missing", http.StatusNotFound,
		`{"errors":[{"code":"not_found","detail":"Transaction not found"}]}`)
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Transactions.GetTransaction(context.Background(), "missing")
	status, ok := core.APIStatusCode(err)
	if !ok || status != http.StatusNotFound {
		t.Fatalf("expected 404 api error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Transaction not found") {
		t.Fatalf("expected server detail in message, got %v", err)
	}
}

func TestAllTransactionsFollowsPages(t *testing.T) {
	transport := devkit.NewFakeTransport().Handle(http.MethodGet, "transactions", devkit.PagedRoute(
		devkit.TransactionPageJSON(devkit.Meta(1, 2, 0, 1, 2, 2), devkit.TransactionJSON("t-1", "tx-1")),
		devkit.TransactionPageJSON(devkit.Meta(2, 0, 1, 1, 2, 2), devkit.TransactionJSON("t-2", "tx-2")),
	))
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	items, err := core.CollectAll(context.Background(),
		core.TransactionPages(client.Transactions, core.TransactionListRequest{BankAccountSlug: "slug"}),
		core.FirstPage(1))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(items) != 2 || items[0].InternalID != "tx-1" || items[1].InternalID != "tx-2" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestAddAttachmentStreamsMultipartBody(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodPost, "transactions/tx-1/attachments", http.StatusOK, `{}`)
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	input := &trackingReader{Reader: bytes.NewReader([]byte("%PDF-1.4 receipt"))}

	if err := client.Attachments.AddAttachment(context.Background(), "tx-1", core.AttachmentTypePDF, input); err != nil {
		t.Fatalf("add attachment: %v", err)
	}
	if input.closed {
		t.Fatalf("expected caller owned input to stay open")
	}

	req := transport.Requests()[0]
	mediaType, params, err := mime.ParseMediaType(req.ContentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("unexpected content type %q", req.ContentType)
	}
	reader := multipart.NewReader(bytes.NewReader(req.Body), params["boundary"])
	part, err := reader.NextPart()
	if err != nil {
		t.Fatalf("read part: %v", err)
	}
	if part.FormName() != "file" || part.FileName() != "file.pdf" {
		t.Fatalf("unexpected part %q %q", part.FormName(), part.FileName())
	}
	if part.Header.Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected part content type %q", part.Header.Get("Content-Type"))
	}
	content, _ := io.ReadAll(part)
	if string(content) != "%PDF-1.4 receipt" {
		t.Fatalf("unexpected part content %q", content)
	}
	if _, err := reader.NextPart(); err != io.EOF {
		t.Fatalf("expected a single part, got %v", err)
	}
}

func TestAddAttachmentValidatesBeforeSending(t *testing.T) {
	transport := devkit.NewFakeTransport()
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Attachments.AddAttachment(context.Background(), "tx-1", core.AttachmentType(42), strings.NewReader("x")); err == nil {
		t.Fatalf("expected unsupported type to fail")
	}
	if err := client.Attachments.AddAttachment(context.Background(), "tx-1", core.AttachmentTypePNG, nil); err == nil {
		t.Fatalf("expected nil input to fail")
	}
	if err := client.Attachments.AddAttachment(context.Background(), " ", core.AttachmentTypePNG, strings.NewReader("x")); err == nil {
		t.Fatalf("expected missing transaction id to fail")
	}
	if transport.RequestCount() != 0 {
		t.Fatalf("expected validation to happen before any request")
	}
}

func TestGetAttachmentConvertsProbativeCopy(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "attachments/att-1", http.StatusOK,
		`{"attachment":`+devkit.AttachmentJSON("att-1")+`}`)
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	attachment, err := client.Attachments.GetAttachment(context.Background(), "att-1")
	if err != nil {
		t.Fatalf("get attachment: %v", err)
	}
	if attachment.FileName != "receipt.pdf" || attachment.Size != 2048 {
		t.Fatalf("unexpected attachment %+v", attachment)
	}
	if attachment.Probative == nil || attachment.Probative.File == nil || attachment.Probative.File.Size != 4096 {
		t.Fatalf("unexpected probative copy %+v", attachment.Probative)
	}
}

func TestRemoveAttachmentPaths(t *testing.T) {
	transport := devkit.NewFakeTransport().
		JSON(http.MethodDelete, "transactions/tx-1/attachments/att-1", http.StatusNoContent, ``).
		JSON(http.MethodDelete, "transactions/tx-1/attachments", http.StatusNoContent, ``)
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Attachments.RemoveAttachment(context.Background(), "tx-1", "att-1"); err != nil {
		t.Fatalf("remove attachment: %v", err)
	}
	if err := client.Attachments.RemoveAllAttachments(context.Background(), "tx-1"); err != nil {
		t.Fatalf("remove all attachments: %v", err)
	}
	if transport.RequestCount() != 2 {
		t.Fatalf("expected 2 requests, got %d", transport.RequestCount())
	}
}

func TestGetMembershipListMapsPage(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "memberships", http.StatusOK,
		devkit.MembershipPageJSON(devkit.Meta(2, 3, 1, 2, 3, 6),
			devkit.MembershipJSON("member-3", "Ada", "Lovelace"),
			devkit.MembershipJSON("member-4", "Alan", "Turing")))
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	page, err := client.Memberships.GetMembershipList(context.Background(), core.Pagination{PageIndex: 2, ItemsPerPage: 2})
	if err != nil {
		t.Fatalf("get membership list: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].FirstName != "Ada" || page.Items[1].LastName != "Turing" {
		t.Fatalf("unexpected memberships %+v", page.Items)
	}
	if page.NextPagination == nil || page.NextPagination.PageIndex != 3 {
		t.Fatalf("expected next page 3, got %+v", page.NextPagination)
	}
	if page.PreviousPagination == nil || page.PreviousPagination.PageIndex != 1 {
		t.Fatalf("expected previous page 1, got %+v", page.PreviousPagination)
	}
	query := transport.Requests()[0].Query
	if query.Get("current_page") != "2" || query.Get("per_page") != "2" {
		t.Fatalf("unexpected pagination query %v", query)
	}
}

func TestGetLabelListKeepsParentLinks(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "labels", http.StatusOK,
		devkit.LabelPageJSON(devkit.Meta(1, 0, 0, 100, 1, 2),
			devkit.LabelJSON("label-1", "Food", ""),
			devkit.LabelJSON("label-2", "Lunch", "label-1")))
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	page, err := client.Labels.GetLabelList(context.Background(), core.Pagination{})
	if err != nil {
		t.Fatalf("get label list: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(page.Items))
	}
	if page.Items[0].HasParent() || page.Items[1].ParentID != "label-1" {
		t.Fatalf("unexpected parent links %+v", page.Items)
	}
	if page.NextPagination != nil || page.PreviousPagination != nil {
		t.Fatalf("expected a single page, got %+v", page)
	}
	query := transport.Requests()[0].Query
	if query.Get("current_page") != "1" || query.Get("per_page") != "100" {
		t.Fatalf("unexpected default pagination %v", query)
	}
}

func TestTransactionIsFetchedByInternalIDNotDisplayID(t *testing.T) {
	transport := devkit.NewFakeTransport().JSON(http.MethodGet, "transactions/tx-internal-9", http.StatusOK,
		`{"transaction": `+devkit.TransactionJSON("acme-1234-t-9", "tx-internal-9")+`}`)
	client, err := devkit.NewClient(transport)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	tx, err := client.Transactions.GetTransaction(context.Background(), "tx-internal-9")
	if err != nil {
		t.Fatalf("get by internal id: %v", err)
	}
	if tx.ID != "acme-1234-t-9" || tx.InternalID != "tx-internal-9" {
		t.Fatalf("identifiers mixed up: %+v", tx)
	}

	_, err = client.Transactions.GetTransaction(context.Background(), tx.ID)
	if status, ok := core.APIStatusCode(err); !ok || status != http.StatusNotFound {
		t.Fatalf("expected 404 when fetching by display id, got %v", err)
	}
	requests := transport.Requests()
	if len(requests) != 2 || !strings.HasSuffix(requests[1].URL, "/transactions/acme-1234-t-9") {
		t.Fatalf("unexpected requests %+v", requests)
	}
}
