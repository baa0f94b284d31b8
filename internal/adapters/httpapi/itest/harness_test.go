package itest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lettersmith/newsletter-api/internal/adapters/contracttest"
	"github.com/lettersmith/newsletter-api/internal/adapters/httpapi"
	memclock "github.com/lettersmith/newsletter-api/internal/adapters/memory/clock"
	"github.com/lettersmith/newsletter-api/internal/adapters/memory/mailbox"
	memstore "github.com/lettersmith/newsletter-api/internal/adapters/memory/subscriptionstore"
	pgstore "github.com/lettersmith/newsletter-api/internal/adapters/postgres/subscriptionstore"
	pgtestutil "github.com/lettersmith/newsletter-api/internal/adapters/postgres/testutil"
	"github.com/lettersmith/newsletter-api/internal/app/newsletters"
	"github.com/lettersmith/newsletter-api/internal/app/subscriptions"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
	mail    *mailbox.Mailbox
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	var store contracttest.SubscriptionStore
	switch b {
	case backendPostgres:
		store = pgstore.New(pgtestutil.NewPool(t))
	default:
		store = memstore.New()
	}

	mail := mailbox.New()
	clk := memclock.NewManualClock(time.Unix(1_700_000_000, 0).UTC())

	// The confirmation links embed this base URL; tests re-root the path onto
	// the httptest server, the way a user's mail client would follow a link
	// to the public host.
	subsSvc := subscriptions.NewService(store, store, store, mail, clk, "http://api.test", nil)
	newsSvc := newsletters.NewService(store, mail, nil)
	srv := httpapi.NewServer(subsSvc, newsSvc, nil)

	ts := httptest.NewServer(httpapi.NewRouter(srv, httpapi.RouterOptions{}))
	t.Cleanup(ts.Close)

	return &testServer{baseURL: ts.URL, client: ts.Client(), mail: mail}
}

func (s *testServer) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := s.client.PostForm(s.baseURL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (s *testServer) postJSON(t *testing.T, path, body string) (*http.Response, string) {
	t.Helper()
	resp, err := s.client.Post(s.baseURL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (s *testServer) get(t *testing.T, pathAndQuery string) (*http.Response, string) {
	t.Helper()
	resp, err := s.client.Get(s.baseURL + pathAndQuery)
	if err != nil {
		t.Fatalf("GET %s: %v", pathAndQuery, err)
	}
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}
