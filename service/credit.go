package service

import (
	"context"
	"fmt"
	"time"

	"storecredit/event"
	"storecredit/model"
	"storecredit/repository"
	"storecredit/util/errs"
	"storecredit/util/logger"
	"storecredit/util/storage/sqldb/transactor"
	"storecredit/util/translator"
)

// ลำดับ priority ของ handler (มากทำงานก่อน)
// AddAmount ต้องทำงานก่อน UpdateOrCreateExpiration เสมอ
// เพราะตัวหลังต้องใช้บัญชีที่บันทึกยอดแล้วจาก event
const (
	priorityAddAmount       = 128
	priorityExpiration      = 64
	priorityVerifyUsage     = 128
	priorityVerifyCoupon    = 140
	priorityOrderCancel     = 0
	priorityCheckExpiration = 10
)

// CreditConfig ถูกโหลดครั้งเดียวตอนสร้าง service ไม่อ่านจาก global config ระหว่างทาง
type CreditConfig struct {
	ExpirationEnabled bool
	ExpirationDelay   int // หน่วยเป็นเดือน
}

// CreditService คือชุดกฎของระบบ store credit ทั้งหมด
// ทุกกฎถูกเรียกผ่าน event dispatcher ตามตาราง Subscriptions
type CreditService struct {
	transactor     transactor.Transactor
	accountRepo    repository.CreditAccountRepository
	historyRepo    repository.CreditHistoryRepository
	expirationRepo repository.CreditExpirationRepository
	dispatcher     event.Dispatcher
	translator     *translator.Translator
	cfg            CreditConfig
	metrics        *Metrics
	now            func() time.Time
}

func NewCreditService(
	transactor transactor.Transactor,
	accountRepo repository.CreditAccountRepository,
	historyRepo repository.CreditHistoryRepository,
	expirationRepo repository.CreditExpirationRepository,
	dispatcher event.Dispatcher,
	translator *translator.Translator,
	cfg CreditConfig,
	metrics *Metrics,
) *CreditService {
	return &CreditService{
		transactor:     transactor,
		accountRepo:    accountRepo,
		historyRepo:    historyRepo,
		expirationRepo: expirationRepo,
		dispatcher:     dispatcher,
		translator:     translator,
		cfg:            cfg,
		metrics:        metrics,
		now:            time.Now,
	}
}

// Subscriptions คืนตารางผูก event แต่ละชนิดเข้ากับกฎที่ตอบสนอง พร้อม priority
func (s *CreditService) Subscriptions() []event.Subscription {
	return []event.Subscription{
		{Kind: event.KindCreditChanged, Priority: priorityAddAmount, Handler: event.Typed(s.AddAmount)},
		{Kind: event.KindCreditChanged, Priority: priorityExpiration, Handler: event.Typed(s.UpdateOrCreateExpiration)},
		{Kind: event.KindOrderBeforePayment, Priority: priorityVerifyUsage, Handler: event.Typed(s.VerifyCreditUsage)},
		{Kind: event.KindOrderStatusChanged, Priority: priorityOrderCancel, Handler: event.Typed(s.UpdateCreditOnCancel)},
		{Kind: event.KindCouponConsume, Priority: priorityVerifyCoupon, Handler: event.Typed(s.VerifyCoupon)},
		{Kind: event.KindCartItemAdded, Priority: priorityCheckExpiration, Handler: event.Typed(s.CheckCreditExpiration)},
	}
}

// AddAmount บวกยอด (ติดลบได้) เข้าบัญชี credit ของลูกค้า พร้อมบันทึกหนึ่งรายการ history
// บัญชีถูกสร้างให้อัตโนมัติเมื่อมี event แรกของลูกค้าคนนั้น
// การอัปเดตยอดกับการบันทึก history อยู่ใน transaction เดียวกันเสมอ
// ยอดคงเหลือติดลบได้ ไม่ถือเป็น error
func (s *CreditService) AddAmount(ctx context.Context, evt *event.CreditChanged) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context, _ func(transactor.PostCommitHook)) error {
		account, err := s.accountRepo.FindByCustomerIDForUpdate(ctx, evt.CustomerID)
		if err != nil {
			logger.Log.Error(err.Error())
			return err
		}

		if account == nil {
			account = model.NewCreditAccount(evt.CustomerID)
			if err := s.accountRepo.Create(ctx, account); err != nil {
				logger.Log.Error(err.Error())
				return err
			}
		}

		account.AddAmount(evt.Amount)
		if err := s.accountRepo.UpdateAmount(ctx, account); err != nil {
			logger.Log.Error(err.Error())
			return err
		}

		history := model.NewCreditHistory(account.ID, evt.Amount, evt.OrderID, evt.WhoDidIt)
		if err := s.historyRepo.Create(ctx, history); err != nil {
			logger.Log.Error(err.Error())
			return err
		}

		// ส่งบัญชีล่าสุดติดไปกับ event ให้ handler ลำดับถัดไป
		evt.Account = account

		s.metrics.ObserveChange(evt.Amount)
		return nil
	})
}

// UpdateOrCreateExpiration เริ่มนับเวลาหมดอายุใหม่ทุกครั้งที่มีการเติม credit
// นาฬิกานับใหม่ทั้งบัญชี ไม่ได้นับแยกตามยอดที่เติมแต่ละครั้ง
func (s *CreditService) UpdateOrCreateExpiration(ctx context.Context, evt *event.CreditChanged) error {
	if !s.cfg.ExpirationEnabled || !evt.Amount.IsPositive() {
		return nil
	}
	if evt.Account == nil {
		// ยังไม่ผ่าน AddAmount ไม่มีบัญชีให้ตั้งเวลาหมดอายุ
		return nil
	}

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context, _ func(transactor.PostCommitHook)) error {
		expiration, err := s.expirationRepo.FindByAccountID(ctx, evt.Account.ID)
		if err != nil {
			logger.Log.Error(err.Error())
			return err
		}

		if expiration == nil {
			expiration = model.NewCreditExpiration(evt.Account.ID, s.now(), s.cfg.ExpirationDelay)
			if err := s.expirationRepo.Create(ctx, expiration); err != nil {
				logger.Log.Error(err.Error())
				return err
			}
			return nil
		}

		expiration.Restart(s.now(), s.cfg.ExpirationDelay)
		if err := s.expirationRepo.Update(ctx, expiration); err != nil {
			logger.Log.Error(err.Error())
			return err
		}
		return nil
	})
}

// VerifyCreditUsage หักยอด credit ที่ลูกค้าเลือกใช้ตอน checkout เข้าออเดอร์จริง
// ทำตอนก่อนรับชำระเงินเท่านั้น เพื่อไม่หักยอดให้ออเดอร์ที่ถูกทิ้งกลางทาง
// แล้วล้างสถานะกันการหักซ้ำ
func (s *CreditService) VerifyCreditUsage(ctx context.Context, evt *event.OrderBeforePayment) error {
	checkout := evt.Checkout
	if checkout == nil || !checkout.Used {
		return nil
	}

	credit := event.NewCreditChanged(evt.Order.CustomerID, checkout.Amount.Neg()).
		WithOrderID(evt.Order.ID).
		WithWhoDidIt(s.translator.Trans("Customer"))

	if err := s.dispatcher.Dispatch(ctx, credit); err != nil {
		return err
	}

	checkout.Reset()
	return nil
}

// VerifyCoupon บังคับกฎห้ามใช้ coupon พร้อมกับ credit ในรอบ checkout เดียวกัน
// ถ้าพบว่า credit ถูกเลือกใช้อยู่ จะหยุด event และคืน error ไปถึงผู้ใช้
func (s *CreditService) VerifyCoupon(ctx context.Context, evt *event.CouponConsume) error {
	if evt.Checkout == nil || !evt.Checkout.Used {
		return nil
	}

	evt.StopPropagation()
	s.metrics.ObserveCouponConflict()
	return errs.BusinessRuleError(s.translator.Trans("You can't use both coupon and credit"))
}

// UpdateCreditOnCancel ย้อนรายการ credit ทั้งหมดที่ผูกกับออเดอร์ที่ถูกยกเลิก
// แต่ละรายการถูกย้อนแยกกันด้วยยอดกลับเครื่องหมาย รองรับออเดอร์ที่มีหลายรายการ
func (s *CreditService) UpdateCreditOnCancel(ctx context.Context, evt *event.OrderStatusChanged) error {
	order := evt.Order
	if !order.IsCanceled() {
		return nil
	}

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context, _ func(transactor.PostCommitHook)) error {
		histories, err := s.historyRepo.FindByOrderID(ctx, order.ID)
		if err != nil {
			logger.Log.Error(err.Error())
			return err
		}

		for _, history := range histories {
			credit := event.NewCreditChanged(order.CustomerID, history.Amount.Neg()).
				WithOrderID(order.ID).
				WithWhoDidIt(s.translator.Trans("Order canceled"))

			if err := s.dispatcher.Dispatch(ctx, credit); err != nil {
				return err
			}
		}
		return nil
	})
}

// CheckCreditExpiration ตรวจยอดหมดอายุตอนมีสินค้าเพิ่มลงตะกร้า
// ใช้จุดนี้เป็น polling point เพราะเกิดบ่อยและไม่มี scheduler เบื้องหลัง
// ถ้าเลยกำหนด จะล้างยอดคงเหลือทั้งบัญชีเป็นศูนย์แล้วลบตัวจับเวลาออก
func (s *CreditService) CheckCreditExpiration(ctx context.Context, evt *event.CartItemAdded) error {
	if !s.cfg.ExpirationEnabled || evt.CustomerID == 0 {
		return nil
	}

	expiration, err := s.expirationRepo.FindByCustomerID(ctx, evt.CustomerID)
	if err != nil {
		logger.Log.Error(err.Error())
		return err
	}
	if expiration == nil {
		return nil
	}
	if !expiration.Expired(s.now()) {
		return nil
	}

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context, _ func(transactor.PostCommitHook)) error {
		account, err := s.accountRepo.FindByCustomerID(ctx, evt.CustomerID)
		if err != nil {
			logger.Log.Error(err.Error())
			return err
		}
		if account == nil {
			// ข้อมูลไม่สอดคล้อง: มี expiration แต่ไม่มีบัญชี ข้ามไปโดยไม่ล้ม request
			logger.Log.Warn(fmt.Sprintf("credit expiration %d references missing account for customer %d", expiration.ID, evt.CustomerID))
			return nil
		}

		credit := event.NewCreditChanged(evt.CustomerID, account.Amount.Neg()).
			WithWhoDidIt(s.translator.Trans("Expiration %d months", expiration.ExpirationDelay))

		if err := s.dispatcher.Dispatch(ctx, credit); err != nil {
			return err
		}

		if err := s.expirationRepo.DeleteByID(ctx, expiration.ID); err != nil {
			logger.Log.Error(err.Error())
			return err
		}

		s.metrics.ObserveExpiration()
		return nil
	})
}
