package model

import "github.com/shopspring/decimal"

// CheckoutCredit เก็บความตั้งใจใช้ credit ของลูกค้าระหว่าง checkout หนึ่งรอบ
// ยอดจะยังไม่ถูกหักจริงจนกว่าจะถึงขั้นตอนชำระเงิน เพื่อไม่ให้เสีย credit
// กับออเดอร์ที่ถูกทิ้งกลางทาง
type CheckoutCredit struct {
	Used   bool
	Amount decimal.Decimal
}

// Apply บันทึกว่าลูกค้าเลือกใช้ credit เท่าไรในรอบนี้
func (c *CheckoutCredit) Apply(amount decimal.Decimal) {
	c.Used = true
	c.Amount = amount
}

// Reset ล้างสถานะหลังยอดถูกหักเข้าออเดอร์แล้ว กันการหักซ้ำ
func (c *CheckoutCredit) Reset() {
	c.Used = false
	c.Amount = decimal.Zero
}
