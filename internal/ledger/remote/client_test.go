package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/bill"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
	"github.com/MrJamesThe3rd/finboard/internal/ledger/remote"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/money"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type query struct {
	Query      string `json:"query"`
	Parameters []any  `json:"parameters"`
}

// fakeServer answers /auth with a JWT valid for ttl and /query with the
// response of the first handler whose key is contained in the statement.
type fakeServer struct {
	mu       sync.Mutex
	ttl      time.Duration
	auths    int
	queries  []query
	rejectN  int
	answers  map[string]any
	tokens   []string
	lastAuth string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()

	f := &fakeServer{ttl: time.Hour, answers: map[string]any{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	return f, srv
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/auth":
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		f.auths++
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(f.ttl)),
		}).SignedString([]byte("server-key"))
		f.tokens = append(f.tokens, token)

		json.NewEncoder(w).Encode(map[string]string{"token": token})
	case "/query":
		f.lastAuth = r.Header.Get("Authorization")

		if f.rejectN > 0 {
			f.rejectN--
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var q query
		json.NewDecoder(r.Body).Decode(&q)
		f.queries = append(f.queries, q)

		for key, answer := range f.answers {
			if strings.Contains(q.Query, key) {
				json.NewEncoder(w).Encode(map[string]any{"data": answer})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newClient(srv *httptest.Server, clock func() time.Time) *remote.Client {
	return remote.New(remote.Config{
		URL:      srv.URL + "/",
		Username: "finboard",
		Password: "secret",
		Clock:    clock,
	})
}

func TestClient_FetchAll(t *testing.T) {
	f, srv := newFakeServer(t)

	accID := uuid.New()
	f.answers["FROM accounts"] = []map[string]any{{
		"id": accID, "name": "Checking", "institution": "Bank of America", "number": "XXXX-1234",
		"kind": "checking", "balance": 41458, "opening_balance": 50000, "active": true,
	}}
	f.answers["FROM transactions"] = []map[string]any{{
		"id": uuid.New(), "account_id": accID, "date": "2024-03-10T00:00:00Z", "amount": -8542,
		"description": "Groceries", "category": "food", "recurring": false,
	}}
	f.answers["FROM bills"] = []map[string]any{{
		"id": uuid.New(), "name": "Rent", "amount": 150000, "due_date": "2024-04-01T00:00:00Z",
		"paid": false, "recurring": true, "frequency": "monthly", "category": "Housing",
	}}

	c := newClient(srv, func() time.Time { return now })

	recs, err := c.FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, recs.Accounts, 1)
	assert.Equal(t, account.Account{
		ID: accID, Name: "Checking", Institution: "Bank of America", Number: "XXXX-1234",
		Kind: account.KindChecking, Balance: 41458, OpeningBalance: 50000, Active: true,
	}, recs.Accounts[0])

	require.Len(t, recs.Transactions, 1)
	assert.Equal(t, money.Amount(-8542), recs.Transactions[0].Amount)
	assert.Equal(t, transaction.CategoryFood, recs.Transactions[0].Category)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), recs.Transactions[0].Date)

	require.Len(t, recs.Bills, 1)
	assert.Equal(t, bill.FrequencyMonthly, recs.Bills[0].Frequency)

	assert.Equal(t, 1, f.auths, "token is reused across queries")
	assert.Equal(t, "Bearer "+f.tokens[0], f.lastAuth)
}

func TestClient_RenewsExpiringToken(t *testing.T) {
	f, srv := newFakeServer(t)
	f.ttl = time.Minute

	clock := now
	c := newClient(srv, func() time.Time { return clock })
	ctx := context.Background()
	a := account.New(account.CreateParams{Name: "Checking", Kind: account.KindChecking})

	require.NoError(t, c.CreateAccount(ctx, a))
	require.NoError(t, c.CreateAccount(ctx, a))
	assert.Equal(t, 1, f.auths)

	// within the renewal margin of the one-minute token
	clock = now.Add(45 * time.Second)

	require.NoError(t, c.CreateAccount(ctx, a))
	assert.Equal(t, 2, f.auths)
}

func TestClient_ReauthenticatesOnRejectedToken(t *testing.T) {
	f, srv := newFakeServer(t)
	c := newClient(srv, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.CreateBill(ctx, bill.New(bill.CreateParams{Name: "Rent", Amount: 1, DueDate: now})))

	f.mu.Lock()
	f.rejectN = 1
	f.mu.Unlock()

	require.NoError(t, c.CreateBill(ctx, bill.New(bill.CreateParams{Name: "Rent", Amount: 1, DueDate: now})))
	assert.Equal(t, 2, f.auths)
	assert.Len(t, f.queries, 2)
}

func TestClient_BadCredentials(t *testing.T) {
	_, srv := newFakeServer(t)

	c := remote.New(remote.Config{URL: srv.URL, Username: "finboard", Password: "wrong"})

	_, err := c.FetchAll(context.Background())
	assert.ErrorIs(t, err, remote.ErrUnauthorized)
}

func TestClient_Mutations(t *testing.T) {
	f, srv := newFakeServer(t)
	c := newClient(srv, func() time.Time { return now })
	ctx := context.Background()

	accID := uuid.New()
	tx := transaction.New(transaction.CreateParams{
		AccountID: accID,
		Date:      now,
		Amount:    -4500,
		Category:  transaction.CategoryFood,
	})
	balances := []account.Balance{{AccountID: accID, Balance: 45500}}

	// nothing matched yet
	err := c.UpdateTransaction(ctx, tx, balances)
	require.ErrorIs(t, err, ledger.ErrRecordNotFound)

	f.mu.Lock()
	f.answers["matched"] = []map[string]any{{"matched": 1}}
	f.mu.Unlock()

	require.NoError(t, c.UpdateTransaction(ctx, tx, balances))
	require.NoError(t, c.CreateTransactions(ctx, []transaction.Transaction{tx}, balances))
	require.NoError(t, c.DeleteTransaction(ctx, tx.ID, balances))

	rent := bill.New(bill.CreateParams{Name: "Rent", Amount: 150000, DueDate: now, Recurring: true})
	next, err := rent.Next()
	require.NoError(t, err)
	require.NoError(t, c.PayBill(ctx, rent, &next))
	require.NoError(t, c.PayBill(ctx, rent, nil))

	f.mu.Lock()
	defer f.mu.Unlock()

	last := f.queries[len(f.queries)-1]
	assert.Contains(t, last.Query, "json_to_recordset($9::json)")
	assert.Len(t, last.Parameters, 9)

	update := f.queries[1]
	assert.Contains(t, update.Query, "UPDATE transactions")
	require.Len(t, update.Parameters, 8)
	assert.Equal(t, tx.ID.String(), update.Parameters[6])
	assert.JSONEq(t, `[{"id":"`+accID.String()+`","balance":45500}]`, update.Parameters[7].(string))
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth" {
			json.NewEncoder(w).Encode(map[string]string{"token": "opaque"})
			return
		}

		http.Error(w, "relation does not exist", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := remote.New(remote.Config{URL: srv.URL})

	err := c.DeleteBill(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.NotErrorIs(t, err, ledger.ErrRecordNotFound)
}

func TestClient_ContextCancelled(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newClient(srv, func() time.Time { return now })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Rules(t *testing.T) {
	f, srv := newFakeServer(t)
	c := newClient(srv, func() time.Time { return now })
	ctx := context.Background()

	rule, err := c.FindMatch(ctx, "NETFLIX.COM 1234")
	require.NoError(t, err)
	assert.Nil(t, rule)

	f.mu.Lock()
	f.answers["ILIKE"] = []map[string]any{{"pattern": "netflix", "description": "Netflix", "category": "entertainment"}}
	f.mu.Unlock()

	rule, err = c.FindMatch(ctx, "NETFLIX.COM 1234")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, transaction.CategoryEntertainment, rule.Category)
	assert.Equal(t, "Netflix", rule.Description)

	require.NoError(t, c.CreateRule(ctx, matching.Rule{Pattern: "uber", Category: transaction.CategoryTransportation}))

	f.mu.Lock()
	last := f.queries[len(f.queries)-1]
	f.mu.Unlock()

	assert.Contains(t, last.Query, "INSERT INTO category_rules")
	assert.Equal(t, []any{"uber", "", "transportation"}, last.Parameters)
}
