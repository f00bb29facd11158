package event

import (
	"time"

	"github.com/google/uuid"
)

// Kind ระบุชนิดของ event ทั้งหมดในระบบเป็น enum
// ใช้แทนการ dispatch ด้วย string เพื่อให้ compiler ช่วยตรวจชนิดให้
type Kind int

const (
	KindCreditChanged Kind = iota
	KindOrderBeforePayment
	KindOrderStatusChanged
	KindCouponConsume
	KindCartItemAdded
)

func (k Kind) String() string {
	switch k {
	case KindCreditChanged:
		return "CreditChanged"
	case KindOrderBeforePayment:
		return "OrderBeforePayment"
	case KindOrderStatusChanged:
		return "OrderStatusChanged"
	case KindCouponConsume:
		return "CouponConsume"
	case KindCartItemAdded:
		return "CartItemAdded"
	default:
		return "Unknown"
	}
}

// Event คือ interface กลางของ event ทุกตัว
type Event interface {
	EventID() string       // คืนค่า ID ของ event (UUID)
	EventKind() Kind       // คืนชนิดของ event
	OccurredAt() time.Time // เวลาที่ event นั้นเกิดขึ้น
}

// Base เป็น struct พื้นฐานสำหรับฝังใน event ที่เฉพาะเจาะจง
type Base struct {
	ID   string
	Kind Kind
	At   time.Time
}

func NewBase(kind Kind) Base {
	return Base{
		ID:   uuid.NewString(),
		Kind: kind,
		At:   time.Now(),
	}
}

func (e Base) EventID() string {
	return e.ID
}

func (e Base) EventKind() Kind {
	return e.Kind
}

func (e Base) OccurredAt() time.Time {
	return e.At
}

// Propagation ฝังใน event ที่ต้องการให้ handler สั่งหยุดการส่งต่อไปยัง handler ถัดไปได้
type Propagation struct {
	stopped bool
}

func (p *Propagation) StopPropagation() {
	p.stopped = true
}

func (p *Propagation) PropagationStopped() bool {
	return p.stopped
}

// Stoppable คือ event ที่หยุดการส่งต่อได้
type Stoppable interface {
	StopPropagation()
	PropagationStopped() bool
}
