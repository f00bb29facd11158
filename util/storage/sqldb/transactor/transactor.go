// Ref: https://github.com/Thiht/transactor/blob/main/sqlx/transactor.go
package transactor

import (
	"context"
	"fmt"

	"storecredit/util/logger"

	"github.com/jmoiron/sqlx"
)

// PostCommitHook ทำงานหลัง commit สำเร็จเท่านั้น เช่น ส่งอีเมล หรือ publish event
type PostCommitHook func(ctx context.Context) error

type Transactor interface {
	WithinTransaction(ctx context.Context, txFunc func(ctxWithTx context.Context, registerPostCommitHook func(PostCommitHook)) error) error
}

type sqlTransactor struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) (Transactor, DBTXContext) {
	t := &sqlTransactor{db: db}

	dbGetter := func(ctx context.Context) DBTX {
		if tx := txFromContext(ctx); tx != nil {
			return tx
		}
		return db
	}

	return t, dbGetter
}

type hooksKey struct{}

func (t *sqlTransactor) WithinTransaction(ctx context.Context, txFunc func(ctxWithTx context.Context, registerPostCommitHook func(PostCommitHook)) error) error {
	// ถ้าถูกเรียกซ้อนจากใน transaction เดิม ให้ทำงานใน transaction นั้นต่อเลย
	// hook ที่ลงทะเบียนจากชั้นในจะไปทำงานหลัง commit ของชั้นนอกสุด
	if txFromContext(ctx) != nil {
		if hooks, ok := ctx.Value(hooksKey{}).(*[]PostCommitHook); ok {
			return txFunc(ctx, func(h PostCommitHook) { *hooks = append(*hooks, h) })
		}
		return txFunc(ctx, func(PostCommitHook) {})
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // If rollback fails, there's nothing to do, the transaction will expire by itself
	}()

	hooks := &[]PostCommitHook{}
	ctxWithTx := context.WithValue(txToContext(ctx, tx), hooksKey{}, hooks)

	if err := txFunc(ctxWithTx, func(h PostCommitHook) { *hooks = append(*hooks, h) }); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, hook := range *hooks {
		if err := hook(ctx); err != nil {
			logger.Log.Error(fmt.Sprintf("post-commit hook failed: %v", err))
		}
	}

	return nil
}

func IsWithinTransaction(ctx context.Context) bool {
	return ctx.Value(transactorKey{}) != nil
}
