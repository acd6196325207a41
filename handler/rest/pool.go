package rest

import (
	"context"
	"net/http"
	"strings"

	"lending/core"
	"lending/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func (h *Handler) allPools(ctx context.Context, r *http.Request) (interface{}, error) {
	pools, err := h.poolStore.All(ctx)
	if err != nil {
		return nil, err
	}

	poolViews := make([]*views.Pool, 0, len(pools))
	for _, p := range pools {
		view, err := h.poolView(ctx, p.Symbol)
		if err != nil {
			return nil, err
		}
		poolViews = append(poolViews, view)
	}

	return poolViews, nil
}

func (h *Handler) pool(ctx context.Context, r *http.Request) (interface{}, error) {
	return h.poolView(ctx, strings.ToUpper(chi.URLParam(r, "symbol")))
}

func (h *Handler) poolView(ctx context.Context, symbol string) (*views.Pool, error) {
	pool, err := h.pools.Pool(ctx, symbol)
	if err != nil {
		return nil, err
	}

	lenders, err := h.poolStore.ListLenders(ctx, symbol)
	if err != nil {
		return nil, err
	}

	borrowers, err := h.poolStore.ListBorrowers(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return &views.Pool{
		Pool:        pool,
		TotalAssets: pool.TotalAssets(),
		Utilization: h.model.UtilizationRate(pool.Liquidity, pool.TotalBorrows),
		BorrowAPY:   h.model.BorrowRatePerYear(pool.Liquidity, pool.TotalBorrows),
		SupplyAPY:   h.model.SupplyRatePerYear(pool.Liquidity, pool.TotalBorrows),
		Lenders:     len(lenders),
		Borrowers:   len(borrowers),
	}, nil
}

func (h *Handler) lenders(ctx context.Context, r *http.Request) (interface{}, error) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	var params struct {
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	}
	if err := h.decoder.Decode(&params, r.URL.Query()); err != nil {
		return nil, errBadRequest{err}
	}

	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 100
	}

	pool, err := h.pools.Pool(ctx, symbol)
	if err != nil {
		return nil, err
	}

	lenders, err := h.poolStore.ListLenders(ctx, symbol)
	if err != nil {
		return nil, err
	}

	lenderViews := make([]*views.Lender, 0)
	for idx := params.Offset; idx >= 0 && idx < len(lenders) && len(lenderViews) < params.Limit; idx++ {
		lenderViews = append(lenderViews, &views.Lender{
			LenderPosition: lenders[idx],
			Value:          lenderValue(pool, lenders[idx]),
		})
	}

	return lenderViews, nil
}

// lenderValue assets the position redeems for, rounded down
func lenderValue(pool *core.Pool, position *core.LenderPosition) decimal.Decimal {
	if pool.VTokenSupply.IsZero() {
		return decimal.Zero
	}

	return position.VTokenBalance.Mul(pool.TotalAssets()).Div(pool.VTokenSupply).Truncate(0)
}
