package dto

import (
	"errors"
	"time"

	"storecredit/model"

	"github.com/shopspring/decimal"
)

type AddCreditRequest struct {
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	OrderID    *int64          `json:"order_id,omitempty"`
	WhoDidIt   string          `json:"who_did_it,omitempty"`
}

func (r *AddCreditRequest) Validate() error {
	if r.CustomerID <= 0 {
		return errors.New("customer_id is required")
	}
	if r.Amount.IsZero() {
		return errors.New("amount must not be zero")
	}
	return nil
}

type CreditBalanceResponse struct {
	CustomerID int64           `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
}

func NewCreditBalanceResponse(account *model.CreditAccount) *CreditBalanceResponse {
	return &CreditBalanceResponse{
		CustomerID: account.CustomerID,
		Balance:    account.Amount,
	}
}

type CreditHistoryResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	OrderID   *int64          `json:"order_id,omitempty"`
	WhoDidIt  string          `json:"who_did_it,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreditDetailResponse struct {
	CustomerID int64                   `json:"customer_id"`
	Balance    decimal.Decimal         `json:"balance"`
	History    []CreditHistoryResponse `json:"history"`
}

func NewCreditDetailResponse(account *model.CreditAccount, histories []model.CreditHistory) *CreditDetailResponse {
	resp := &CreditDetailResponse{
		CustomerID: account.CustomerID,
		Balance:    account.Amount,
		History:    make([]CreditHistoryResponse, 0, len(histories)),
	}
	for _, h := range histories {
		resp.History = append(resp.History, CreditHistoryResponse{
			Amount:    h.Amount,
			OrderID:   h.OrderID,
			WhoDidIt:  h.WhoDidIt,
			CreatedAt: h.CreatedAt,
		})
	}
	return resp
}
