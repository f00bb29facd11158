package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storecredit/event"
	"storecredit/model"
	"storecredit/util/errs"
	"storecredit/util/storage/sqldb/transactor"
	"storecredit/util/translator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// fakeTransactor เรียก txFunc ตรงๆ โดยไม่มี transaction จริง
type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, txFunc func(ctxWithTx context.Context, registerPostCommitHook func(transactor.PostCommitHook)) error) error {
	return txFunc(ctx, func(transactor.PostCommitHook) {})
}

type fakeAccountRepo struct {
	accounts map[int64]*model.CreditAccount // key: customer id
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[int64]*model.CreditAccount)}
}

func (r *fakeAccountRepo) FindByCustomerID(ctx context.Context, customerID int64) (*model.CreditAccount, error) {
	return r.accounts[customerID], nil
}

func (r *fakeAccountRepo) FindByCustomerIDForUpdate(ctx context.Context, customerID int64) (*model.CreditAccount, error) {
	return r.accounts[customerID], nil
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *model.CreditAccount) error {
	r.accounts[account.CustomerID] = account
	return nil
}

func (r *fakeAccountRepo) UpdateAmount(ctx context.Context, account *model.CreditAccount) error {
	return nil // แก้ค่าผ่าน pointer เดิมอยู่แล้ว
}

type fakeHistoryRepo struct {
	entries []model.CreditHistory
}

func (r *fakeHistoryRepo) Create(ctx context.Context, history *model.CreditHistory) error {
	r.entries = append(r.entries, *history)
	return nil
}

func (r *fakeHistoryRepo) FindByOrderID(ctx context.Context, orderID int64) ([]model.CreditHistory, error) {
	var out []model.CreditHistory
	for _, h := range r.entries {
		if h.OrderID != nil && *h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) FindByAccountID(ctx context.Context, accountID int64) ([]model.CreditHistory, error) {
	var out []model.CreditHistory
	for _, h := range r.entries {
		if h.CreditAccountID == accountID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeExpirationRepo struct {
	byAccount map[int64]*model.CreditExpiration // key: credit account id

	// byCustomer ใช้ seed กรณีข้อมูลไม่สอดคล้อง (มี expiration แต่ไม่มีบัญชี)
	byCustomer map[int64]*model.CreditExpiration
	accounts   *fakeAccountRepo
}

func newFakeExpirationRepo(accounts *fakeAccountRepo) *fakeExpirationRepo {
	return &fakeExpirationRepo{
		byAccount:  make(map[int64]*model.CreditExpiration),
		byCustomer: make(map[int64]*model.CreditExpiration),
		accounts:   accounts,
	}
}

func (r *fakeExpirationRepo) FindByAccountID(ctx context.Context, accountID int64) (*model.CreditExpiration, error) {
	return r.byAccount[accountID], nil
}

func (r *fakeExpirationRepo) FindByCustomerID(ctx context.Context, customerID int64) (*model.CreditExpiration, error) {
	if e, ok := r.byCustomer[customerID]; ok {
		return e, nil
	}
	account := r.accounts.accounts[customerID]
	if account == nil {
		return nil, nil
	}
	return r.byAccount[account.ID], nil
}

func (r *fakeExpirationRepo) Create(ctx context.Context, expiration *model.CreditExpiration) error {
	r.byAccount[expiration.CreditAccountID] = expiration
	return nil
}

func (r *fakeExpirationRepo) Update(ctx context.Context, expiration *model.CreditExpiration) error {
	r.byAccount[expiration.CreditAccountID] = expiration
	return nil
}

func (r *fakeExpirationRepo) DeleteByID(ctx context.Context, id int64) error {
	for k, e := range r.byAccount {
		if e.ID == id {
			delete(r.byAccount, k)
		}
	}
	for k, e := range r.byCustomer {
		if e.ID == id {
			delete(r.byCustomer, k)
		}
	}
	return nil
}

type testEnv struct {
	svc         *CreditService
	dispatcher  event.Dispatcher
	accounts    *fakeAccountRepo
	histories   *fakeHistoryRepo
	expirations *fakeExpirationRepo
	now         time.Time
}

func newTestEnv(cfg CreditConfig) *testEnv {
	accounts := newFakeAccountRepo()
	histories := &fakeHistoryRepo{}
	expirations := newFakeExpirationRepo(accounts)
	dispatcher := event.NewDispatcher()

	env := &testEnv{
		dispatcher:  dispatcher,
		accounts:    accounts,
		histories:   histories,
		expirations: expirations,
		now:         time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	env.svc = NewCreditService(
		fakeTransactor{},
		accounts,
		histories,
		expirations,
		dispatcher,
		translator.New(language.English),
		cfg,
		NewMetrics(prometheus.NewRegistry()),
	)
	env.svc.now = func() time.Time { return env.now }

	event.RegisterAll(dispatcher, env.svc.Subscriptions())
	return env
}

func (env *testEnv) grant(t *testing.T, customerID int64, amount int64) {
	t.Helper()
	evt := event.NewCreditChanged(customerID, decimal.NewFromInt(amount))
	if err := env.dispatcher.Dispatch(context.Background(), evt); err != nil {
		t.Fatalf("Dispatch(CreditChanged) error = %v", err)
	}
}

func (env *testEnv) balance(t *testing.T, customerID int64) decimal.Decimal {
	t.Helper()
	account := env.accounts.accounts[customerID]
	if account == nil {
		t.Fatalf("no credit account for customer %d", customerID)
	}
	return account.Amount
}

func TestAddAmount_CreatesAccountOnFirstEvent(t *testing.T) {
	env := newTestEnv(CreditConfig{})

	env.grant(t, 7, 100)

	if got := env.balance(t, 7); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %v, want 100", got)
	}
	if len(env.histories.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(env.histories.entries))
	}
	if got := env.histories.entries[0].Amount; !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("history amount = %v, want 100", got)
	}
}

func TestAddAmount_NegativeBalanceAllowed(t *testing.T) {
	env := newTestEnv(CreditConfig{})

	// หักจากลูกค้าที่ยังไม่เคยมีบัญชี ต้องไม่ error และยอดติดลบ
	env.grant(t, 7, -50)

	if got := env.balance(t, 7); !got.Equal(decimal.NewFromInt(-50)) {
		t.Errorf("balance = %v, want -50", got)
	}
}

func TestAddAmount_BalanceEqualsHistorySum(t *testing.T) {
	env := newTestEnv(CreditConfig{})

	for _, amount := range []int64{100, -30, 25, -200, 7} {
		env.grant(t, 7, amount)
	}

	sum := decimal.Zero
	for _, h := range env.histories.entries {
		sum = sum.Add(h.Amount)
	}
	if got := env.balance(t, 7); !got.Equal(sum) {
		t.Errorf("balance = %v, history sum = %v, want equal", got, sum)
	}
}

func TestExpiration_StartsOnGrant(t *testing.T) {
	env := newTestEnv(CreditConfig{ExpirationEnabled: true, ExpirationDelay: 3})

	env.grant(t, 7, 100)

	account := env.accounts.accounts[7]
	expiration := env.expirations.byAccount[account.ID]
	if expiration == nil {
		t.Fatal("no expiration record after grant")
	}
	if !expiration.ExpirationStart.Equal(env.now) {
		t.Errorf("expiration start = %v, want %v", expiration.ExpirationStart, env.now)
	}
	if expiration.ExpirationDelay != 3 {
		t.Errorf("expiration delay = %d, want 3", expiration.ExpirationDelay)
	}
}

func TestExpiration_RestartsOnEveryGrant(t *testing.T) {
	env := newTestEnv(CreditConfig{ExpirationEnabled: true, ExpirationDelay: 3})

	env.grant(t, 7, 100)
	firstID := env.expirations.byAccount[env.accounts.accounts[7].ID].ID

	// เติมอีกครั้งหลังผ่านไป 2 เดือน นาฬิกาต้องเริ่มนับใหม่ทั้งบัญชี
	env.now = env.now.AddDate(0, 2, 0)
	env.grant(t, 7, 10)

	expiration := env.expirations.byAccount[env.accounts.accounts[7].ID]
	if expiration.ID != firstID {
		t.Errorf("expiration record replaced, want same record restarted")
	}
	if !expiration.ExpirationStart.Equal(env.now) {
		t.Errorf("expiration start = %v, want restarted at %v", expiration.ExpirationStart, env.now)
	}
}

func TestExpiration_SkippedWhenDisabled(t *testing.T) {
	env := newTestEnv(CreditConfig{ExpirationEnabled: false, ExpirationDelay: 3})

	env.grant(t, 7, 100)

	if len(env.expirations.byAccount) != 0 {
		t.Errorf("expiration records = %d, want 0 when disabled", len(env.expirations.byAccount))
	}
}

func TestExpiration_SkippedOnDebit(t *testing.T) {
	env := newTestEnv(CreditConfig{ExpirationEnabled: true, ExpirationDelay: 3})

	env.grant(t, 7, 100)
	started := env.expirations.byAccount[env.accounts.accounts[7].ID].ExpirationStart

	env.now = env.now.AddDate(0, 1, 0)
	env.grant(t, 7, -40)

	expiration := env.expirations.byAccount[env.accounts.accounts[7].ID]
	if !expiration.ExpirationStart.Equal(started) {
		t.Errorf("expiration start moved on debit: %v, want %v", expiration.ExpirationStart, started)
	}
}

func TestVerifyCreditUsage_DebitsOrderAndResetsCheckout(t *testing.T) {
	env := newTestEnv(CreditConfig{})
	env.grant(t, 7, 100)

	checkout := &model.CheckoutCredit{}
	checkout.Apply(decimal.NewFromInt(50))

	order := model.Order{ID: 9, CustomerID: 7, Status: model.OrderStatusPending}
	if err := env.dispatcher.Dispatch(context.Background(), event.NewOrderBeforePayment(order, checkout)); err != nil {
		t.Fatalf("Dispatch(OrderBeforePayment) error = %v", err)
	}

	if got := env.balance(t, 7); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("balance = %v, want 50", got)
	}

	if len(env.histories.entries) != 2 {
		t.Fatalf("history entries = %d, want 2", len(env.histories.entries))
	}
	debit := env.histories.entries[1]
	if !debit.Amount.Equal(decimal.NewFromInt(-50)) {
		t.Errorf("debit amount = %v, want -50", debit.Amount)
	}
	if debit.OrderID == nil || *debit.OrderID != 9 {
		t.Errorf("debit order id = %v, want 9", debit.OrderID)
	}
	if debit.WhoDidIt != "Customer" {
		t.Errorf("debit who_did_it = %q, want Customer", debit.WhoDidIt)
	}

	if checkout.Used || !checkout.Amount.IsZero() {
		t.Errorf("checkout not reset after payment: %+v", checkout)
	}
}

func TestVerifyCreditUsage_NoopWithoutCredit(t *testing.T) {
	env := newTestEnv(CreditConfig{})
	env.grant(t, 7, 100)

	order := model.Order{ID: 9, CustomerID: 7, Status: model.OrderStatusPending}
	if err := env.dispatcher.Dispatch(context.Background(), event.NewOrderBeforePayment(order, &model.CheckoutCredit{})); err != nil {
		t.Fatalf("Dispatch(OrderBeforePayment) error = %v", err)
	}
	if err := env.dispatcher.Dispatch(context.Background(), event.NewOrderBeforePayment(order, nil)); err != nil {
		t.Fatalf("Dispatch(OrderBeforePayment) with nil checkout error = %v", err)
	}

	if got := env.balance(t, 7); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %v, want 100 untouched", got)
	}
	if len(env.histories.entries) != 1 {
		t.Errorf("history entries = %d, want 1", len(env.histories.entries))
	}
}

func TestVerifyCoupon_RejectsWhenCreditUsed(t *testing.T) {
	env := newTestEnv(CreditConfig{})
	env.grant(t, 7, 100)

	// handler อื่นที่ priority ต่ำกว่า ต้องไม่ได้ทำงานเพราะ event ถูกหยุด
	consumed := false
	env.dispatcher.Register(event.KindCouponConsume, 10, event.HandlerFunc(func(ctx context.Context, evt event.Event) error {
		consumed = true
		return nil
	}))

	checkout := &model.CheckoutCredit{}
	checkout.Apply(decimal.NewFromInt(50))

	evt := event.NewCouponConsume("SPRING", checkout)
	err := env.dispatcher.Dispatch(context.Background(), evt)

	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Dispatch(CouponConsume) error = %v, want AppError", err)
	}
	if appErr.Type != errs.ErrBusinessRule {
		t.Errorf("error type = %s, want %s", appErr.Type, errs.ErrBusinessRule)
	}
	if appErr.Message != "You can't use both coupon and credit" {
		t.Errorf("error message = %q", appErr.Message)
	}

	if !evt.PropagationStopped() {
		t.Error("PropagationStopped() = false, want true")
	}
	if consumed {
		t.Error("coupon handler ran after propagation stopped")
	}

	// กฎนี้ต้องไม่แตะยอดหรือ ledger
	if got := env.balance(t, 7); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %v, want 100 untouched", got)
	}
	if len(env.histories.entries) != 1 {
		t.Errorf("history entries = %d, want 1", len(env.histories.entries))
	}
}

func TestVerifyCoupon_AllowedWithoutCredit(t *testing.T) {
	env := newTestEnv(CreditConfig{})

	for _, checkout := range []*model.CheckoutCredit{nil, {}} {
		evt := event.NewCouponConsume("SPRING", checkout)
		if err := env.dispatcher.Dispatch(context.Background(), evt); err != nil {
			t.Errorf("Dispatch(CouponConsume) error = %v, want nil", err)
		}
		if evt.PropagationStopped() {
			t.Error("PropagationStopped() = true, want false")
		}
	}
}

func TestUpdateCreditOnCancel_ReversesOrderEntries(t *testing.T) {
	env := newTestEnv(CreditConfig{})

	ctx := context.Background()
	dispatch := func(evt event.Event) {
		t.Helper()
		if err := env.dispatcher.Dispatch(ctx, evt); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}

	// สองรายการผูกกับออเดอร์ 9 และหนึ่งรายการที่ไม่เกี่ยว
	dispatch(event.NewCreditChanged(7, decimal.NewFromInt(100)).WithOrderID(9))
	dispatch(event.NewCreditChanged(7, decimal.NewFromInt(-30)).WithOrderID(9))
	dispatch(event.NewCreditChanged(7, decimal.NewFromInt(5)))

	order := model.Order{ID: 9, CustomerID: 7, Status: model.OrderStatusCanceled}
	dispatch(event.NewOrderStatusChanged(order))

	// ย้อนทีละรายการด้วยยอดกลับเครื่องหมาย: -100 และ +30
	if len(env.histories.entries) != 5 {
		t.Fatalf("history entries = %d, want 5", len(env.histories.entries))
	}
	reversal1 := env.histories.entries[3]
	reversal2 := env.histories.entries[4]
	if !reversal1.Amount.Equal(decimal.NewFromInt(-100)) {
		t.Errorf("first reversal = %v, want -100", reversal1.Amount)
	}
	if !reversal2.Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("second reversal = %v, want 30", reversal2.Amount)
	}
	for _, reversal := range []model.CreditHistory{reversal1, reversal2} {
		if reversal.WhoDidIt != "Order canceled" {
			t.Errorf("reversal who_did_it = %q, want Order canceled", reversal.WhoDidIt)
		}
		if reversal.OrderID == nil || *reversal.OrderID != 9 {
			t.Errorf("reversal order id = %v, want 9", reversal.OrderID)
		}
	}

	// รายการที่ไม่เกี่ยวกับออเดอร์ต้องยังอยู่ในยอด
	if got := env.balance(t, 7); !got.Equal(decimal.NewFromInt(5)) {
		t.Errorf("balance = %v, want 5", got)
	}
}

func TestUpdateCreditOnCancel_IgnoresOtherStatuses(t *testing.T) {
	env := newTestEnv(CreditConfig{})
	env.grant(t, 7, 100)

	order := model.Order{ID: 9, CustomerID: 7, Status: model.OrderStatusPaid}
	if err := env.dispatcher.Dispatch(context.Background(), event.NewOrderStatusChanged(order)); err != nil {
		t.Fatalf("Dispatch(OrderStatusChanged) error = %v", err)
	}

	if len(env.histories.entries) != 1 {
		t.Errorf("history entries = %d, want 1", len(env.histories.entries))
	}
}

func TestCheckCreditExpiration_WipesExpiredBalance(t *testing.T) {
	env := newTestEnv(CreditConfig{ExpirationEnabled: true, ExpirationDelay: 3})

	env.grant(t, 7, 100)
	env.grant(t, 7, -20)

	env.now = env.now.AddDate(0, 3, 0).Add(time.Hour)

	if err := env.dispatcher.Dispatch(context.Background(), event.NewCartItemAdded(7, 42, 1)); err != nil {
		t.Fatalf("Dispatch(CartItemAdded) error = %v", err)
	}

	if got := env.balance(t, 7); !got.IsZero() {
		t.Errorf("balance = %v, want 0 after expiration", got)
	}

	if len(env.histories.entries) != 3 {
		t.Fatalf("history entries = %d, want 3", len(env.histories.entries))
	}
	wipe := env.histories.entries[2]
	if !wipe.Amount.Equal(decimal.NewFromInt(-80)) {
		t.Errorf("wipe amount = %v, want -80", wipe.Amount)
	}
	if wipe.WhoDidIt != "Expiration 3 months" {
		t.Errorf("wipe who_did_it = %q, want Expiration 3 months", wipe.WhoDidIt)
	}

	// ตัวจับเวลาถูกลบแล้ว event ตะกร้าครั้งถัดไปต้องไม่ทำอะไร
	if len(env.expirations.byAccount) != 0 {
		t.Fatalf("expiration records = %d, want 0", len(env.expirations.byAccount))
	}
	if err := env.dispatcher.Dispatch(context.Background(), event.NewCartItemAdded(7, 42, 1)); err != nil {
		t.Fatalf("Dispatch(CartItemAdded) second error = %v", err)
	}
	if len(env.histories.entries) != 3 {
		t.Errorf("history entries after second cart event = %d, want 3", len(env.histories.entries))
	}
}

func TestCheckCreditExpiration_NotYetExpired(t *testing.T) {
	env := newTestEnv(CreditConfig{ExpirationEnabled: true, ExpirationDelay: 3})

	env.grant(t, 7, 100)

	// ตรง ExpiresAt พอดี ยังไม่ถือว่าหมดอายุ
	env.now = env.now.AddDate(0, 3, 0)

	if err := env.dispatcher.Dispatch(context.Background(), event.NewCartItemAdded(7, 42, 1)); err != nil {
		t.Fatalf("Dispatch(CartItemAdded) error = %v", err)
	}

	if got := env.balance(t, 7); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %v, want 100 untouched", got)
	}
	if len(env.expirations.byAccount) != 1 {
		t.Errorf("expiration records = %d, want 1", len(env.expirations.byAccount))
	}
}

func TestCheckCreditExpiration_SkipsGuest(t *testing.T) {
	env := newTestEnv(CreditConfig{ExpirationEnabled: true, ExpirationDelay: 3})

	if err := env.dispatcher.Dispatch(context.Background(), event.NewCartItemAdded(0, 42, 1)); err != nil {
		t.Errorf("Dispatch(CartItemAdded) for guest error = %v, want nil", err)
	}
}

func TestCheckCreditExpiration_SkipsWhenDisabled(t *testing.T) {
	env := newTestEnv(CreditConfig{ExpirationEnabled: false, ExpirationDelay: 3})

	// seed expiration ค้างไว้ตรงๆ เหมือนถูกสร้างตอนที่ระบบยังเปิดอยู่
	env.grant(t, 7, 100)
	account := env.accounts.accounts[7]
	env.expirations.byAccount[account.ID] = model.NewCreditExpiration(account.ID, env.now.AddDate(0, -6, 0), 3)

	if err := env.dispatcher.Dispatch(context.Background(), event.NewCartItemAdded(7, 42, 1)); err != nil {
		t.Fatalf("Dispatch(CartItemAdded) error = %v", err)
	}

	if got := env.balance(t, 7); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %v, want 100 untouched when disabled", got)
	}
}

func TestCheckCreditExpiration_MissingAccount(t *testing.T) {
	env := newTestEnv(CreditConfig{ExpirationEnabled: true, ExpirationDelay: 3})

	// ข้อมูลไม่สอดคล้อง: มี expiration ที่หมดอายุแล้วแต่ไม่มีบัญชี
	env.expirations.byCustomer[55] = model.NewCreditExpiration(999, env.now.AddDate(0, -6, 0), 3)

	if err := env.dispatcher.Dispatch(context.Background(), event.NewCartItemAdded(55, 42, 1)); err != nil {
		t.Errorf("Dispatch(CartItemAdded) error = %v, want nil (skip without failing)", err)
	}
	if len(env.histories.entries) != 0 {
		t.Errorf("history entries = %d, want 0", len(env.histories.entries))
	}
}
