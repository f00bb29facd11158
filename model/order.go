package model

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusCanceled OrderStatus = "canceled"
)

// Order เป็น snapshot ของออเดอร์จากระบบภายนอก ใช้ประกอบ event เท่านั้น
// ระบบ credit ไม่ได้เป็นเจ้าของข้อมูลออเดอร์
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Status     OrderStatus `json:"status"`
}

func (o Order) IsCanceled() bool {
	return o.Status == OrderStatusCanceled
}
