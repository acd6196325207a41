package rest

import (
	"context"
	"net/http"

	"lending/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func (h *Handler) account(ctx context.Context, r *http.Request) (interface{}, error) {
	account, err := h.accounts.Find(ctx, chi.URLParam(r, "user"))
	if err != nil {
		return nil, err
	}

	view := &views.Account{
		MarginAccount: account,
		Debts:         map[string]decimal.Decimal{},
	}

	for _, symbol := range account.BorrowedTokens {
		debt, err := h.pools.RepayAmount(ctx, symbol, account.Address)
		if err != nil {
			return nil, err
		}
		view.Debts[symbol] = debt
	}

	if view.CollateralValue, err = h.risk.TotalCollateralValueUsd(ctx, account); err != nil {
		return nil, err
	}

	if view.DebtValue, err = h.risk.TotalDebtValueUsd(ctx, account); err != nil {
		return nil, err
	}

	if view.HealthRatio, err = h.risk.HealthRatio(ctx, account); err != nil {
		return nil, err
	}

	if view.Healthy, err = h.risk.IsHealthy(ctx, view.CollateralValue, view.DebtValue); err != nil {
		return nil, err
	}

	return view, nil
}
