package handler

import (
	"storecredit/dto"
	"storecredit/event"
	"storecredit/model"
	"storecredit/repository"
	"storecredit/util/errs"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/shopspring/decimal"
)

// session keys ที่ฝั่งหน้าร้านใช้เก็บการเลือกใช้ credit ระหว่าง checkout
const (
	sessionCreditUsed   = "creditAccount.used"
	sessionCreditAmount = "creditAccount.amount"
)

// CheckoutHandler แปลง request ฝั่งหน้าร้านให้เป็น event เข้าสู่ระบบกฎของ credit
// สถานะใน session ถูกแปลงเป็น CheckoutCredit ก่อนส่งเข้า event เสมอ
// ตัวกฎเองไม่แตะ session โดยตรง
type CheckoutHandler struct {
	dispatcher  event.Dispatcher
	accountRepo repository.CreditAccountRepository
}

func NewCheckoutHandler(dispatcher event.Dispatcher, accountRepo repository.CreditAccountRepository) *CheckoutHandler {
	return &CheckoutHandler{
		dispatcher:  dispatcher,
		accountRepo: accountRepo,
	}
}

func (h *CheckoutHandler) APIVersion() string {
	return "v1"
}

func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout/credit", h.UseCredit)
	router.Post("/orders/:orderID/pay", h.PayOrder)
	router.Post("/orders/:orderID/cancel", h.CancelOrder)
	router.Post("/cart/items", h.AddCartItem)
	router.Post("/coupons/consume", h.ConsumeCoupon)
}

// UseCredit ลูกค้าเลือกว่าจะใช้ credit เท่าไรกับออเดอร์ที่กำลังจะจ่าย
// ยังไม่หักยอดจริง แค่จดไว้ใน session จนกว่าจะถึงขั้นตอนชำระเงิน
func (h *CheckoutHandler) UseCredit(c fiber.Ctx) error {
	var req dto.UseCreditRequest
	if err := c.Bind().Body(&req); err != nil {
		return errs.InputValidationError(err.Error())
	}
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	account, err := h.accountRepo.FindByCustomerID(c.Context(), req.CustomerID)
	if err != nil {
		return err
	}
	if account == nil || account.Amount.LessThan(req.Amount) {
		return errs.BusinessRuleError("not enough credit")
	}

	sess := session.FromContext(c)
	sess.Set(sessionCreditUsed, 1)
	sess.Set(sessionCreditAmount, req.Amount.String())

	return c.SendStatus(fiber.StatusNoContent)
}

// PayOrder จุดรับชำระเงินของออเดอร์ ยอด credit ที่เลือกไว้จะถูกหักจริงที่นี่
func (h *CheckoutHandler) PayOrder(c fiber.Ctx) error {
	orderID, err := paramInt64(c, "orderID")
	if err != nil {
		return err
	}

	var req dto.PayOrderRequest
	if err := c.Bind().Body(&req); err != nil {
		return errs.InputValidationError(err.Error())
	}
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	sess := session.FromContext(c)
	checkout := checkoutFromSession(sess)

	applied := decimal.Zero
	if checkout.Used {
		applied = checkout.Amount
	}

	evt := event.NewOrderBeforePayment(model.Order{
		ID:         orderID,
		CustomerID: req.CustomerID,
		Status:     model.OrderStatusPaid,
	}, checkout)

	if err := h.dispatcher.Dispatch(c.Context(), evt); err != nil {
		return err
	}

	// เขียนสถานะที่ถูกล้างแล้วกลับเข้า session
	saveCheckout(sess, checkout)

	return c.JSON(&dto.PayOrderResponse{
		OrderID:       orderID,
		CreditApplied: applied,
	})
}

func (h *CheckoutHandler) CancelOrder(c fiber.Ctx) error {
	orderID, err := paramInt64(c, "orderID")
	if err != nil {
		return err
	}

	var req dto.CancelOrderRequest
	if err := c.Bind().Body(&req); err != nil {
		return errs.InputValidationError(err.Error())
	}
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	evt := event.NewOrderStatusChanged(model.Order{
		ID:         orderID,
		CustomerID: req.CustomerID,
		Status:     model.OrderStatusCanceled,
	})

	if err := h.dispatcher.Dispatch(c.Context(), evt); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CheckoutHandler) AddCartItem(c fiber.Ctx) error {
	var req dto.AddCartItemRequest
	if err := c.Bind().Body(&req); err != nil {
		return errs.InputValidationError(err.Error())
	}
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	evt := event.NewCartItemAdded(req.CustomerID, req.ProductID, req.Quantity)
	if err := h.dispatcher.Dispatch(c.Context(), evt); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CheckoutHandler) ConsumeCoupon(c fiber.Ctx) error {
	var req dto.ConsumeCouponRequest
	if err := c.Bind().Body(&req); err != nil {
		return errs.InputValidationError(err.Error())
	}
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	sess := session.FromContext(c)
	evt := event.NewCouponConsume(req.Code, checkoutFromSession(sess))

	// ถ้า credit ถูกเลือกใช้อยู่ กฎจะหยุด event และคืน error 422 ผ่าน middleware
	if err := h.dispatcher.Dispatch(c.Context(), evt); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"code": req.Code, "consumed": true})
}

func checkoutFromSession(sess *session.Middleware) *model.CheckoutCredit {
	checkout := &model.CheckoutCredit{Amount: decimal.Zero}

	used, ok := sess.Get(sessionCreditUsed).(int)
	if !ok || used != 1 {
		return checkout
	}

	raw, ok := sess.Get(sessionCreditAmount).(string)
	if !ok {
		return checkout
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return checkout
	}

	checkout.Apply(amount)
	return checkout
}

func saveCheckout(sess *session.Middleware, checkout *model.CheckoutCredit) {
	if checkout.Used {
		sess.Set(sessionCreditUsed, 1)
		sess.Set(sessionCreditAmount, checkout.Amount.String())
		return
	}
	sess.Set(sessionCreditUsed, 0)
	sess.Set(sessionCreditAmount, "0")
}
