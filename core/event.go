package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventType event type
type EventType string

const (
	EventPoolCreated        EventType = "pool_created"
	EventDeposit            EventType = "deposit"
	EventWithdraw           EventType = "withdraw"
	EventMint               EventType = "mint"
	EventBurn               EventType = "burn"
	EventBorrow             EventType = "borrow"
	EventRepay              EventType = "repay"
	EventBadDebt            EventType = "bad_debt"
	EventCollateralIn       EventType = "collateral_deposited"
	EventCollateralOut      EventType = "collateral_withdrawn"
	EventLiquidate          EventType = "liquidate"
	EventSettle             EventType = "settle"
	EventAccountCreated     EventType = "account_created"
	EventAccountActivated   EventType = "account_activated"
	EventAccountDeactivated EventType = "account_deactivated"
	EventAccountDeleted     EventType = "account_deleted"
	EventParametersUpdated  EventType = "parameters_updated"
)

// Event notification emitted by an operation
type Event struct {
	ID        string          `json:"id" structs:"id"`
	Type      EventType       `json:"type" structs:"type"`
	Symbol    string          `json:"symbol,omitempty" structs:"symbol,omitempty"`
	Account   string          `json:"account,omitempty" structs:"account,omitempty"`
	Amount    decimal.Decimal `json:"amount" structs:"amount,omitnested"`
	Timestamp time.Time       `json:"timestamp" structs:"timestamp,omitnested"`
}

// INotifier event sink
type INotifier interface {
	Notify(ctx context.Context, event *Event) error
}
