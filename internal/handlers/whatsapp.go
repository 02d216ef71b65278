package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lebonmot/reviews-backend/internal/services"
)

// WhatsAppHandler receives inbound WhatsApp traffic and hands it to the
// conversation runtime. The webhook acknowledges immediately; replies go out
// asynchronously from the runtime goroutine.
type WhatsAppHandler struct {
	runtime *services.ConversationRuntime
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(runtime *services.ConversationRuntime) *WhatsAppHandler {
	return &WhatsAppHandler{runtime: runtime}
}

// TwilioWebhookPayload represents an incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid string `form:"MessageSid"`
	AccountSid string `form:"AccountSid"`
	From       string `form:"From"` // WhatsApp number (whatsapp:+33612345678)
	To         string `form:"To"`   // Your Twilio number
	Body       string `form:"Body"` // Message text
	NumMedia   string `form:"NumMedia"`
}

// HandleWebhook processes incoming WhatsApp messages
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload

	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// Status callbacks have no body; only forward real messages
	if payload.Body != "" && payload.From != "" {
		from := strings.TrimPrefix(payload.From, "whatsapp:")
		log.Printf("📱 WhatsApp message from %s: %s", from, payload.Body)

		if !h.runtime.Submit(from, payload.Body) {
			log.Printf("⚠️ Runtime stopped, dropping message from %s", from)
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload is the JSON shape of the development test endpoint.
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test messages without Twilio (for development)
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload

	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	if payload.From == "" || payload.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Both 'from' and 'message' are required",
		})
	}

	log.Printf("🧪 Test webhook received from %s: %s", payload.From, payload.Message)

	accepted := h.runtime.Submit(payload.From, payload.Message)

	return c.JSON(fiber.Map{
		"success":  accepted,
		"from":     payload.From,
		"accepted": accepted,
	})
}
