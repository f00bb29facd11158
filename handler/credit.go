package handler

import (
	"storecredit/dto"
	"storecredit/event"
	"storecredit/repository"
	"storecredit/util/errs"
	"storecredit/util/translator"

	"github.com/gofiber/fiber/v3"
)

// CreditHandler เปิดช่องทางให้ฝั่ง admin เติม/หัก credit และดูยอดกับประวัติ
type CreditHandler struct {
	dispatcher  event.Dispatcher
	accountRepo repository.CreditAccountRepository
	historyRepo repository.CreditHistoryRepository
	translator  *translator.Translator
}

func NewCreditHandler(
	dispatcher event.Dispatcher,
	accountRepo repository.CreditAccountRepository,
	historyRepo repository.CreditHistoryRepository,
	translator *translator.Translator,
) *CreditHandler {
	return &CreditHandler{
		dispatcher:  dispatcher,
		accountRepo: accountRepo,
		historyRepo: historyRepo,
		translator:  translator,
	}
}

func (h *CreditHandler) APIVersion() string {
	return "v1"
}

func (h *CreditHandler) RegisterRoutes(router fiber.Router) {
	credits := router.Group("/credits")
	credits.Post("", h.AddAmount)
	credits.Get("/:customerID", h.GetDetail)
}

func (h *CreditHandler) AddAmount(c fiber.Ctx) error {
	// แปลง request body -> struct
	var req dto.AddCreditRequest
	if err := c.Bind().Body(&req); err != nil {
		// จัดการ error response ที่ middleware
		return errs.InputValidationError(err.Error())
	}

	// ตรวจสอบ input fields (e.g., value, format, etc.)
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	evt := event.NewCreditChanged(req.CustomerID, req.Amount)
	if req.OrderID != nil {
		evt.WithOrderID(*req.OrderID)
	}
	whoDidIt := req.WhoDidIt
	if whoDidIt == "" {
		whoDidIt = h.translator.Trans("Administrator")
	}
	evt.WithWhoDidIt(whoDidIt)

	if err := h.dispatcher.Dispatch(c.Context(), evt); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewCreditBalanceResponse(evt.Account))
}

func (h *CreditHandler) GetDetail(c fiber.Ctx) error {
	customerID, err := paramInt64(c, "customerID")
	if err != nil {
		return err
	}

	account, err := h.accountRepo.FindByCustomerID(c.Context(), customerID)
	if err != nil {
		return err
	}
	if account == nil {
		return errs.ResourceNotFoundError("the credit account with given customer id was not found")
	}

	histories, err := h.historyRepo.FindByAccountID(c.Context(), account.ID)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewCreditDetailResponse(account, histories))
}
