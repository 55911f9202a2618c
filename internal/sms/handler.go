package sms

import (
	"log"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// phonePattern is the accepted E.164 shape: a leading + and 8-15 digits.
var phonePattern = regexp.MustCompile(`^\+\d{8,15}$`)

type sendRequest struct {
	To    string `json:"to"`
	Body  string `json:"body"`
	Token string `json:"token"`
}

// Handler relays SMS send requests to the vendor after validating the shared
// token and the message fields. All rejections happen before any outbound
// call.
type Handler struct {
	sharedToken string
	vendor      *Vendor
}

// NewHandler creates a relay handler. An empty sharedToken disables the token
// check.
func NewHandler(sharedToken string, vendor *Vendor) *Handler {
	return &Handler{sharedToken: sharedToken, vendor: vendor}
}

// Send handles POST /api/v1/sms/send.
func (h *Handler) Send(c *fiber.Ctx) error {
	attempt := uuid.NewString()

	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json body"})
	}

	if h.sharedToken != "" && req.Token != h.sharedToken {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	if req.To == "" || req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to and body required"})
	}
	if !phonePattern.MatchString(req.To) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone (use E.164)"})
	}

	status, payload, err := h.vendor.Send(c.Context(), req.To, req.Body)
	if err != nil {
		log.Printf("ERROR: sms relay %s: vendor call failed: %v", attempt, err)
		return fiber.NewError(fiber.StatusBadGateway, "sms vendor unreachable")
	}

	// Vendor-side failures pass through with the vendor's own status and body.
	if status < 200 || status >= 300 {
		log.Printf("ERROR: sms relay %s: vendor rejected with status %d", attempt, status)
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(status).Send(payload)
	}

	log.Printf("INFO: sms relay %s: delivered to %s", attempt, req.To)
	return c.JSON(fiber.Map{"ok": true, "result": payload})
}
