package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lending/core"
	"lending/internal/app"
	"lending/internal/ratemodel"
	"lending/pkg/number"
	"lending/service/oracle"
	"lending/store/kv"

	"github.com/facebookgo/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	clk := clock.NewMock()
	clk.Add(time.Unix(1700000000, 0).Sub(clk.Now()))

	o := oracle.NewStatic()
	o.Set("XLM", core.QuoteUSD, number.Decimal("1"), 0)
	o.Set("USDC", core.QuoteUSD, number.Decimal("1"), 0)

	model := ratemodel.Default()
	a := app.New(app.Options{
		Store:     kv.NewMemory(),
		Clock:     clk,
		Oracle:    o,
		RateModel: model,
		Admins:    []string{"admin"},
		Registry: map[string]string{
			core.ServiceAccountManager: "manager",
			core.ServicePool("XLM"):    "pool:XLM",
			core.ServicePool("USDC"):   "pool:USDC",
		},
		Risk: core.RiskParameters{
			MinHealthRatio:          number.Decimal("1.1"),
			MaxCollateralAssetCount: 3,
			AllowedCollateral:       []string{"XLM"},
		},
	})

	ctx := context.Background()
	for _, symbol := range []string{"XLM", "USDC"} {
		_, err := a.Pools.CreatePool(core.WithCaller(ctx, "admin"), symbol)
		require.Nil(t, err)
	}

	bob := core.WithCaller(ctx, "bob")
	require.Nil(t, a.Tokens.Mint(ctx, "USDC", "bob", decimal.NewFromInt(1000)))
	_, err := a.Pools.DepositLiquidity(bob, "USDC", "bob", decimal.NewFromInt(1000))
	require.Nil(t, err)

	alice := core.WithCaller(ctx, "alice")
	_, err = a.Accounts.Create(alice, "alice")
	require.Nil(t, err)
	require.Nil(t, a.Tokens.Mint(ctx, "XLM", "alice", decimal.NewFromInt(300)))
	require.Nil(t, a.Accounts.DepositCollateral(alice, "alice", "XLM", decimal.NewFromInt(300)))
	require.Nil(t, a.Accounts.Borrow(alice, "alice", "USDC", decimal.NewFromInt(200)))

	h := New(a.Host, a.PoolStore, a.Pools, a.Accounts, a.Risk, model)
	return httptest.NewServer(h.Handle())
}

func get(t *testing.T, srv *httptest.Server, path string, v interface{}) int {
	resp, err := http.Get(srv.URL + path)
	require.Nil(t, err)
	defer resp.Body.Close()

	if v != nil && resp.StatusCode == http.StatusOK {
		require.Nil(t, json.NewDecoder(resp.Body).Decode(v))
	}

	return resp.StatusCode
}

func TestPools(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	var pools []map[string]interface{}
	assert.Equal(t, http.StatusOK, get(t, srv, "/pools", &pools))
	assert.Len(t, pools, 2)

	var pool struct {
		Symbol      string          `json:"symbol"`
		TotalAssets decimal.Decimal `json:"total_assets"`
		Utilization decimal.Decimal `json:"utilization"`
		Lenders     int             `json:"lenders"`
		Borrowers   int             `json:"borrowers"`
	}
	assert.Equal(t, http.StatusOK, get(t, srv, "/pools/usdc", &pool))
	assert.Equal(t, "USDC", pool.Symbol)
	assert.Equal(t, "1000", pool.TotalAssets.String())
	assert.Equal(t, "0.2", pool.Utilization.String())
	assert.Equal(t, 1, pool.Lenders)
	assert.Equal(t, 1, pool.Borrowers)

	var lenders []struct {
		Lender string          `json:"lender"`
		Value  decimal.Decimal `json:"value"`
	}
	assert.Equal(t, http.StatusOK, get(t, srv, "/pools/USDC/lenders?limit=10", &lenders))
	require.Len(t, lenders, 1)
	assert.Equal(t, "bob", lenders[0].Lender)
	assert.Equal(t, "1000", lenders[0].Value.String())

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/pools/BTC", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/pools/USDC/lenders?limit=x", nil))

	resp, err := http.Get(srv.URL + "/pools/USDC/lenders?offset=y")
	require.Nil(t, err)
	defer resp.Body.Close()

	var body struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, -1, body.Code, "malformed query is not a lending error")
	assert.Contains(t, body.Msg, "offset")
}

func TestAccount(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	var account struct {
		UserID          string                     `json:"user_id"`
		CollateralValue decimal.Decimal            `json:"collateral_value_usd"`
		DebtValue       decimal.Decimal            `json:"debt_value_usd"`
		Debts           map[string]decimal.Decimal `json:"debts"`
		HealthRatio     decimal.Decimal            `json:"health_ratio"`
		Healthy         bool                       `json:"healthy"`
	}
	assert.Equal(t, http.StatusOK, get(t, srv, "/accounts/alice", &account))
	assert.Equal(t, "alice", account.UserID)
	assert.Equal(t, "300", account.CollateralValue.String())
	assert.Equal(t, "200", account.DebtValue.String())
	assert.Equal(t, "200", account.Debts["USDC"].String())
	assert.Equal(t, "1.5", account.HealthRatio.String())
	assert.True(t, account.Healthy)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/accounts/carol", nil))
}
