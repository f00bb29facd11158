package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storecredit/model"
	"storecredit/util/errs"
	"storecredit/util/storage/sqldb/transactor"
)

type CreditAccountRepository interface {
	FindByCustomerID(ctx context.Context, customerID int64) (*model.CreditAccount, error)
	FindByCustomerIDForUpdate(ctx context.Context, customerID int64) (*model.CreditAccount, error)
	Create(ctx context.Context, account *model.CreditAccount) error
	UpdateAmount(ctx context.Context, account *model.CreditAccount) error
}

type creditAccountRepository struct {
	dbCtx transactor.DBTXContext
}

func NewCreditAccountRepository(dbCtx transactor.DBTXContext) CreditAccountRepository {
	return &creditAccountRepository{
		dbCtx: dbCtx,
	}
}

func (r *creditAccountRepository) FindByCustomerID(ctx context.Context, customerID int64) (*model.CreditAccount, error) {
	query := `
	SELECT *
	FROM public.credit_accounts
	WHERE customer_id = $1
`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var account model.CreditAccount
	err := r.dbCtx(ctx).QueryRowxContext(ctx, query, customerID).StructScan(&account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while finding a credit account by customer id: %w", err))
	}
	return &account, nil
}

func (r *creditAccountRepository) FindByCustomerIDForUpdate(ctx context.Context, customerID int64) (*model.CreditAccount, error) {
	query := `
	SELECT *
	FROM public.credit_accounts
	WHERE customer_id = $1
	FOR NO KEY UPDATE
`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var account model.CreditAccount
	err := r.dbCtx(ctx).QueryRowxContext(ctx, query, customerID).StructScan(&account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while finding a credit account by customer id: %w", err))
	}
	return &account, nil
}

func (r *creditAccountRepository) Create(ctx context.Context, account *model.CreditAccount) error {
	query := `
	INSERT INTO public.credit_accounts (id, customer_id, amount)
	VALUES ($1, $2, $3)
	RETURNING *
	`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.dbCtx(ctx).
		QueryRowxContext(ctx, query, account.ID, account.CustomerID, account.Amount).
		StructScan(account) // นำค่า created_at, updated_at ใส่กลับเข้า struct
	if err != nil {
		return errs.HandleDBError(fmt.Errorf("an error occurred while inserting a credit account: %w", err))
	}
	return nil
}

func (r *creditAccountRepository) UpdateAmount(ctx context.Context, account *model.CreditAccount) error {
	query := `
	UPDATE public.credit_accounts
	SET amount = $2, updated_at = current_timestamp
	WHERE id = $1
	RETURNING *
`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.dbCtx(ctx).QueryRowxContext(ctx, query, account.ID, account.Amount).StructScan(account)
	if err != nil {
		return errs.HandleDBError(fmt.Errorf("an error occurred while updating credit account amount: %w", err))
	}
	return nil
}
