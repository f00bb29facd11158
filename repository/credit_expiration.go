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

type CreditExpirationRepository interface {
	FindByAccountID(ctx context.Context, accountID int64) (*model.CreditExpiration, error)
	FindByCustomerID(ctx context.Context, customerID int64) (*model.CreditExpiration, error)
	Create(ctx context.Context, expiration *model.CreditExpiration) error
	Update(ctx context.Context, expiration *model.CreditExpiration) error
	DeleteByID(ctx context.Context, id int64) error
}

type creditExpirationRepository struct {
	dbCtx transactor.DBTXContext
}

func NewCreditExpirationRepository(dbCtx transactor.DBTXContext) CreditExpirationRepository {
	return &creditExpirationRepository{
		dbCtx: dbCtx,
	}
}

func (r *creditExpirationRepository) FindByAccountID(ctx context.Context, accountID int64) (*model.CreditExpiration, error) {
	query := `
	SELECT *
	FROM public.credit_expirations
	WHERE credit_account_id = $1
`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var expiration model.CreditExpiration
	err := r.dbCtx(ctx).QueryRowxContext(ctx, query, accountID).StructScan(&expiration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while finding a credit expiration by account id: %w", err))
	}
	return &expiration, nil
}

func (r *creditExpirationRepository) FindByCustomerID(ctx context.Context, customerID int64) (*model.CreditExpiration, error) {
	query := `
	SELECT e.*
	FROM public.credit_expirations e
	JOIN public.credit_accounts a ON a.id = e.credit_account_id
	WHERE a.customer_id = $1
`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var expiration model.CreditExpiration
	err := r.dbCtx(ctx).QueryRowxContext(ctx, query, customerID).StructScan(&expiration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.HandleDBError(fmt.Errorf("an error occurred while finding a credit expiration by customer id: %w", err))
	}
	return &expiration, nil
}

func (r *creditExpirationRepository) Create(ctx context.Context, expiration *model.CreditExpiration) error {
	query := `
	INSERT INTO public.credit_expirations (id, credit_account_id, expiration_start, expiration_delay)
	VALUES ($1, $2, $3, $4)
	RETURNING *
	`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.dbCtx(ctx).
		QueryRowxContext(ctx, query, expiration.ID, expiration.CreditAccountID, expiration.ExpirationStart, expiration.ExpirationDelay).
		StructScan(expiration)
	if err != nil {
		return errs.HandleDBError(fmt.Errorf("an error occurred while inserting a credit expiration: %w", err))
	}
	return nil
}

func (r *creditExpirationRepository) Update(ctx context.Context, expiration *model.CreditExpiration) error {
	query := `
	UPDATE public.credit_expirations
	SET expiration_start = $2, expiration_delay = $3, updated_at = current_timestamp
	WHERE id = $1
	RETURNING *
`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.dbCtx(ctx).
		QueryRowxContext(ctx, query, expiration.ID, expiration.ExpirationStart, expiration.ExpirationDelay).
		StructScan(expiration)
	if err != nil {
		return errs.HandleDBError(fmt.Errorf("an error occurred while updating a credit expiration: %w", err))
	}
	return nil
}

func (r *creditExpirationRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `
	DELETE FROM public.credit_expirations
	WHERE id = $1
`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.dbCtx(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return errs.HandleDBError(fmt.Errorf("failed to delete credit expiration: %w", err))
	}
	return nil
}
