package sqldb

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DBContext ห่อ *sqlx.DB เพื่อให้ส่งต่อการเชื่อมต่อฐานข้อมูลผ่าน interface
type DBContext interface {
	DB() *sqlx.DB
}

type CloseFunc func() error

type dbContext struct {
	db *sqlx.DB
}

func NewDBContext(dsn string) (DBContext, CloseFunc, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &dbContext{db: db}, db.Close, nil
}

func (c *dbContext) DB() *sqlx.DB {
	return c.db
}
