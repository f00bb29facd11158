package event

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrInvalidEvent = errors.New("invalid event type")

type Handler interface {
	Handle(ctx context.Context, evt Event) error
}

type HandlerFunc func(ctx context.Context, evt Event) error

func (f HandlerFunc) Handle(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Typed แปลง handler ที่รับ event ชนิดเฉพาะให้เป็น Handler กลาง
func Typed[T Event](fn func(ctx context.Context, evt T) error) Handler {
	return HandlerFunc(func(ctx context.Context, evt Event) error {
		typed, ok := evt.(T)
		if !ok {
			return ErrInvalidEvent
		}
		return fn(ctx, typed)
	})
}

// Dispatcher กระจาย event ไปยัง handler ที่ลงทะเบียนไว้ตามชนิดของ event
// handler ของ event เดียวกันทำงานตามลำดับ priority (มากไปน้อย)
// ถ้า priority เท่ากันใช้ลำดับการลงทะเบียน
type Dispatcher interface {
	Register(kind Kind, priority int, handler Handler)
	Dispatch(ctx context.Context, evt Event) error
}

// Subscription หนึ่งแถวในตารางลงทะเบียน handler
type Subscription struct {
	Kind     Kind
	Priority int
	Handler  Handler
}

// RegisterAll ลงทะเบียน handler ทั้งตารางกับ dispatcher
func RegisterAll(d Dispatcher, subs []Subscription) {
	for _, sub := range subs {
		d.Register(sub.Kind, sub.Priority, sub.Handler)
	}
}

type subscription struct {
	priority int
	handler  Handler
}

type dispatcher struct {
	subs map[Kind][]subscription
	mu   sync.RWMutex
}

func NewDispatcher() Dispatcher {
	return &dispatcher{
		subs: make(map[Kind][]subscription),
	}
}

func (d *dispatcher) Register(kind Kind, priority int, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs := append(d.subs[kind], subscription{priority: priority, handler: handler})
	// stable sort เพื่อคงลำดับการลงทะเบียนเมื่อ priority เท่ากัน
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].priority > subs[j].priority
	})
	d.subs[kind] = subs
}

// Dispatch เรียก handler ทีละตัวจนครบ หรือจนกว่าจะมี error หรือ event ถูกสั่งหยุด
// handler ที่ dispatch event ซ้อนจากข้างใน จะได้ event ซ้อนนั้นทำงานจนจบก่อน
// ที่ control กลับมาถึงตัวเอง (synchronous re-entrant dispatch)
func (d *dispatcher) Dispatch(ctx context.Context, evt Event) error {
	d.mu.RLock()
	subs := append([]subscription(nil), d.subs[evt.EventKind()]...)
	d.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.handler.Handle(ctx, evt); err != nil {
			return fmt.Errorf("error handling event %s: %w", evt.EventKind(), err)
		}
		if s, ok := evt.(Stoppable); ok && s.PropagationStopped() {
			break
		}
	}
	return nil
}
