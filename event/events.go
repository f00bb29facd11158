package event

import (
	"storecredit/model"

	"github.com/shopspring/decimal"
)

// CreditChanged คือคำขอเปลี่ยนยอด credit หนึ่งรายการ (เครื่องหมายบวกคือเติม ลบคือหัก)
type CreditChanged struct {
	Base
	CustomerID int64
	Amount     decimal.Decimal
	OrderID    *int64
	WhoDidIt   string

	// Account ถูกเติมโดย handler ตัวแรกหลังบันทึกยอดแล้ว
	// เพื่อให้ handler ลำดับถัดไปอ่านสถานะบัญชีล่าสุดได้
	Account *model.CreditAccount
}

func NewCreditChanged(customerID int64, amount decimal.Decimal) *CreditChanged {
	return &CreditChanged{
		Base:       NewBase(KindCreditChanged),
		CustomerID: customerID,
		Amount:     amount,
	}
}

func (e *CreditChanged) WithOrderID(orderID int64) *CreditChanged {
	e.OrderID = &orderID
	return e
}

func (e *CreditChanged) WithWhoDidIt(whoDidIt string) *CreditChanged {
	e.WhoDidIt = whoDidIt
	return e
}

// OrderBeforePayment เกิดก่อนรับชำระเงินของออเดอร์
// Checkout คือสถานะการเลือกใช้ credit ของรอบ checkout นี้ (nil ได้ถ้าไม่มี)
type OrderBeforePayment struct {
	Base
	Order    model.Order
	Checkout *model.CheckoutCredit
}

func NewOrderBeforePayment(order model.Order, checkout *model.CheckoutCredit) *OrderBeforePayment {
	return &OrderBeforePayment{
		Base:     NewBase(KindOrderBeforePayment),
		Order:    order,
		Checkout: checkout,
	}
}

// OrderStatusChanged เกิดเมื่อสถานะออเดอร์เปลี่ยน (สนใจเฉพาะกรณียกเลิก)
type OrderStatusChanged struct {
	Base
	Order model.Order
}

func NewOrderStatusChanged(order model.Order) *OrderStatusChanged {
	return &OrderStatusChanged{
		Base:  NewBase(KindOrderStatusChanged),
		Order: order,
	}
}

// CouponConsume เกิดก่อน coupon จะถูกใช้ หยุดการส่งต่อได้
type CouponConsume struct {
	Base
	Propagation
	Code     string
	Checkout *model.CheckoutCredit
}

func NewCouponConsume(code string, checkout *model.CheckoutCredit) *CouponConsume {
	return &CouponConsume{
		Base:     NewBase(KindCouponConsume),
		Code:     code,
		Checkout: checkout,
	}
}

// CartItemAdded เกิดเมื่อมีสินค้าถูกเพิ่มลงตะกร้า
// CustomerID เป็น 0 ได้กรณี guest ที่ยังไม่ login
type CartItemAdded struct {
	Base
	CustomerID int64
	ProductID  int64
	Quantity   int
}

func NewCartItemAdded(customerID, productID int64, quantity int) *CartItemAdded {
	return &CartItemAdded{
		Base:       NewBase(KindCartItemAdded),
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   quantity,
	}
}
