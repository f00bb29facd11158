package dto

import (
	"errors"

	"github.com/shopspring/decimal"
)

type UseCreditRequest struct {
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r *UseCreditRequest) Validate() error {
	if r.CustomerID <= 0 {
		return errors.New("customer_id is required")
	}
	if !r.Amount.IsPositive() {
		return errors.New("amount must be greater than 0")
	}
	return nil
}

type PayOrderRequest struct {
	CustomerID int64 `json:"customer_id"`
}

func (r *PayOrderRequest) Validate() error {
	if r.CustomerID <= 0 {
		return errors.New("customer_id is required")
	}
	return nil
}

type PayOrderResponse struct {
	OrderID       int64           `json:"order_id"`
	CreditApplied decimal.Decimal `json:"credit_applied"`
}

type CancelOrderRequest struct {
	CustomerID int64 `json:"customer_id"`
}

func (r *CancelOrderRequest) Validate() error {
	if r.CustomerID <= 0 {
		return errors.New("customer_id is required")
	}
	return nil
}

type AddCartItemRequest struct {
	CustomerID int64 `json:"customer_id,omitempty"` // 0 ได้กรณี guest
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
}

func (r *AddCartItemRequest) Validate() error {
	if r.ProductID <= 0 {
		return errors.New("product_id is required")
	}
	if r.Quantity <= 0 {
		return errors.New("quantity must be greater than 0")
	}
	return nil
}

type ConsumeCouponRequest struct {
	Code string `json:"code"`
}

func (r *ConsumeCouponRequest) Validate() error {
	if r.Code == "" {
		return errors.New("code is required")
	}
	return nil
}
