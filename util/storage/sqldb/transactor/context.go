package transactor

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBTX คือชุด method ที่มีทั้งใน *sqlx.DB และ *sqlx.Tx
// repository ใช้ interface นี้เพื่อให้ query เดียวกันทำงานได้ทั้งใน/นอก transaction
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// DBTXContext คืน DBTX ตาม context: ถ้าอยู่ใน transaction จะได้ *sqlx.Tx ถ้าไม่จะได้ *sqlx.DB
type DBTXContext func(ctx context.Context) DBTX

type transactorKey struct{}

func txToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, transactorKey{}, tx)
}

func txFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(transactorKey{}).(*sqlx.Tx)
	return tx
}
