package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

// VoucherHandler exposes voucher/stay records
type VoucherHandler struct {
	store storage.Store
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(store storage.Store) *VoucherHandler {
	return &VoucherHandler{store: store}
}

// CreateVoucher registers a new voucher record
func (h *VoucherHandler) CreateVoucher(c *fiber.Ctx) error {
	var voucher models.Voucher
	if err := c.BodyParser(&voucher); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid voucher payload"})
	}
	if voucher.Phone == "" || voucher.VoucherCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "phone and voucher_code are required"})
	}

	created, err := h.store.CreateVoucher(&voucher)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetVoucher returns one voucher record
func (h *VoucherHandler) GetVoucher(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid voucher id"})
	}
	voucher, err := h.store.GetVoucher(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "voucher not found"})
	}
	return c.JSON(voucher)
}
