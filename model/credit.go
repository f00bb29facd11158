package model

import (
	"time"

	"storecredit/util/idgen"

	"github.com/shopspring/decimal"
)

// CreditAccount เก็บยอด credit คงเหลือของลูกค้าหนึ่งคน (หนึ่ง record ต่อหนึ่งลูกค้า)
// ยอดติดลบได้ เพราะการยกเลิกออเดอร์หรือการหมดอายุจะหักยอดเต็มจำนวนเสมอ
// แม้ credit นั้นจะถูกใช้ไปบางส่วนแล้ว
type CreditAccount struct {
	ID         int64           `db:"id"` // tag db ใช้สำหรับ StructScan() ของ sqlx
	CustomerID int64           `db:"customer_id"`
	Amount     decimal.Decimal `db:"amount"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func NewCreditAccount(customerID int64) *CreditAccount {
	return &CreditAccount{
		ID:         idgen.GenerateTimeRandomID(),
		CustomerID: customerID,
		Amount:     decimal.Zero,
	}
}

// AddAmount บวกยอด (ติดลบได้) เข้ายอดคงเหลือ
func (a *CreditAccount) AddAmount(amount decimal.Decimal) {
	a.Amount = a.Amount.Add(amount)
}

// CreditHistory คือหนึ่งรายการเปลี่ยนแปลงยอด credit เขียนครั้งเดียวและไม่แก้ไขอีก
type CreditHistory struct {
	ID              int64           `db:"id"`
	CreditAccountID int64           `db:"credit_account_id"`
	Amount          decimal.Decimal `db:"amount"`
	OrderID         *int64          `db:"order_id"`
	WhoDidIt        string          `db:"who_did_it"`
	CreatedAt       time.Time       `db:"created_at"`
}

func NewCreditHistory(accountID int64, amount decimal.Decimal, orderID *int64, whoDidIt string) *CreditHistory {
	return &CreditHistory{
		ID:              idgen.GenerateTimeRandomID(),
		CreditAccountID: accountID,
		Amount:          amount,
		OrderID:         orderID,
		WhoDidIt:        whoDidIt,
	}
}

// CreditExpiration กำหนดเวลาหมดอายุของยอดคงเหลือทั้งบัญชี (มีได้ record เดียวต่อบัญชี)
// ทุกครั้งที่มีการเติม credit ใหม่ นาฬิกาหมดอายุจะเริ่มนับใหม่ทั้งบัญชี
type CreditExpiration struct {
	ID              int64     `db:"id"`
	CreditAccountID int64     `db:"credit_account_id"`
	ExpirationStart time.Time `db:"expiration_start"`
	ExpirationDelay int       `db:"expiration_delay"` // หน่วยเป็นเดือน
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func NewCreditExpiration(accountID int64, start time.Time, delayMonths int) *CreditExpiration {
	return &CreditExpiration{
		ID:              idgen.GenerateTimeRandomID(),
		CreditAccountID: accountID,
		ExpirationStart: start,
		ExpirationDelay: delayMonths,
	}
}

// Restart เริ่มนับเวลาหมดอายุใหม่ด้วยค่า delay ปัจจุบัน
func (e *CreditExpiration) Restart(start time.Time, delayMonths int) {
	e.ExpirationStart = start
	e.ExpirationDelay = delayMonths
}

func (e *CreditExpiration) ExpiresAt() time.Time {
	return e.ExpirationStart.AddDate(0, e.ExpirationDelay, 0)
}

func (e *CreditExpiration) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt())
}
