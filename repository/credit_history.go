package repository

import (
	"context"
	"fmt"
	"time"

	"storecredit/model"
	"storecredit/util/errs"
	"storecredit/util/storage/sqldb/transactor"
)

type CreditHistoryRepository interface {
	Create(ctx context.Context, history *model.CreditHistory) error
	FindByOrderID(ctx context.Context, orderID int64) ([]model.CreditHistory, error)
	FindByAccountID(ctx context.Context, accountID int64) ([]model.CreditHistory, error)
}

type creditHistoryRepository struct {
	dbCtx transactor.DBTXContext
}

func NewCreditHistoryRepository(dbCtx transactor.DBTXContext) CreditHistoryRepository {
	return &creditHistoryRepository{
		dbCtx: dbCtx,
	}
}

func (r *creditHistoryRepository) Create(ctx context.Context, history *model.CreditHistory) error {
	query := `
	INSERT INTO public.credit_histories (id, credit_account_id, amount, order_id, who_did_it)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING *
	`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.dbCtx(ctx).
		QueryRowxContext(ctx, query, history.ID, history.CreditAccountID, history.Amount, history.OrderID, history.WhoDidIt).
		StructScan(history)
	if err != nil {
		return errs.HandleDBError(fmt.Errorf("an error occurred while inserting a credit history: %w", err))
	}
	return nil
}

func (r *creditHistoryRepository) FindByOrderID(ctx context.Context, orderID int64) ([]model.CreditHistory, error) {
	query := `
	SELECT *
	FROM public.credit_histories
	WHERE order_id = $1
	ORDER BY created_at
`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var histories []model.CreditHistory
	err := r.dbCtx(ctx).SelectContext(ctx, &histories, query, orderID)
	if err != nil {
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while finding credit histories by order id: %w", err))
	}
	return histories, nil
}

func (r *creditHistoryRepository) FindByAccountID(ctx context.Context, accountID int64) ([]model.CreditHistory, error) {
	query := `
	SELECT *
	FROM public.credit_histories
	WHERE credit_account_id = $1
	ORDER BY created_at DESC
`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var histories []model.CreditHistory
	err := r.dbCtx(ctx).SelectContext(ctx, &histories, query, accountID)
	if err != nil {
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while finding credit histories by account id: %w", err))
	}
	return histories, nil
}
