package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rp-admin-service/internal/api/dto"
	"github.com/spec-kit/rp-admin-service/internal/service"
)

// AccountsHandler manages credential accounts.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accountService}
}

// List GET /api/admin/users.
func (h *AccountsHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	accounts, err := h.accounts.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, accountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/admin/users/:id.
func (h *AccountsHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.Get(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": accountResponse(account)})
}

// Create POST /api/admin/users.
func (h *AccountsHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AccountCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, err := h.accounts.Create(c.UserContext(), p, service.AccountCreateInput{
		Username:     req.Username,
		Password:     req.Password,
		Role:         req.Role,
		AllowedForms: req.AllowedForms,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": accountResponse(account)})
}

// Update PUT /api/admin/users/:id.
func (h *AccountsHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AccountUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, err := h.accounts.Update(c.UserContext(), p, c.Params("id"), service.AccountUpdateInput{
		Username:     req.Username,
		Password:     req.Password,
		Role:         req.Role,
		AllowedForms: req.AllowedForms,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": accountResponse(account)})
}

// Delete DELETE /api/admin/users/:id.
func (h *AccountsHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.accounts.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
