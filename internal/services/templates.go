package services

import (
	"fmt"
	"strings"

	"github.com/lebonmot/reviews-backend/internal/models"
)

const divider = "━━━━━━━━━━━━━━━━━━"

// Outbound message templates. All client- and worker-facing texts live here
// so the flow engine and the admin side share one voice.

// WelcomeText is the main menu header shown on start and on menu return.
func WelcomeText(clientID string) string {
	return fmt.Sprintf(`🔐 Le Bon Mot
Anonymous E-reputation Service

%[1]s
🌍 100%% authentic, geolocated reviews
🔒 Total anonymity guaranteed
🎯 Real IPs, verified accounts
💳 Crypto payment only
%[1]s
✅ Over 15,000 reviews delivered
✅ Average delivery time: 48-72h
%[1]s

Your ID: #%[2]s`, divider, clientID)
}

// PlatformPromptText asks for the target platform (step 1).
func PlatformPromptText() string {
	return "📋 Step 1/6: Platform\n\nWhich platform do you need reviews on?"
}

// QuantityPromptText asks for the review count (step 2).
func QuantityPromptText(platform string) string {
	return fmt.Sprintf(`📋 Summary
%[1]s
📊 Platform: %[2]s
%[1]s

📝 Step 2/6: Number of reviews

How many reviews would you like?
(Enter a number)`, divider, models.PlatformLabel(platform))
}

// URLPromptText asks for the target link (step 3).
func URLPromptText(draft OrderDraft) string {
	return fmt.Sprintf(`📋 Summary
%[1]s
📊 Platform: %[2]s
🔢 Reviews: %[3]d
%[1]s

📝 Step 3/6: Target URL

Enter the URL or identifier of the target page`, divider, models.PlatformLabel(draft.Platform), draft.Quantity)
}

// ContentChoicePromptText asks who writes the reviews (step 4), showing the
// price of both options computed from the live draft.
func ContentChoicePromptText(draft OrderDraft) string {
	return fmt.Sprintf(`📋 Summary
%[1]s
📊 Platform: %[2]s
🔢 Reviews: %[3]d
📍 URL: %[4]s
%[1]s

📝 Step 4/6: Who writes the reviews?

📝 Option 1 - You write
• You provide the content
• Price: %[5]s

🤖 Option 2 - Le Bon Mot writes ✨
• Our team generates the reviews
• Authentic, varied content
• Price: %[6]s
• (+%.2[7]f %[8]s per review)`,
		divider,
		models.PlatformLabel(draft.Platform),
		draft.Quantity,
		truncate(draft.TargetLink, 50),
		FormatPrice(Price(draft.Quantity, false)),
		FormatPrice(Price(draft.Quantity, true)),
		GenerationFee,
		CurrencyLabel)
}

// InstructionsPromptText asks for generation instructions (step 5).
func InstructionsPromptText(draft OrderDraft) string {
	return fmt.Sprintf(`📋 Summary
%[1]s
📊 Platform: %[2]s
🔢 Reviews: %[3]d
📍 URL: %[4]s
🤖 Generation: Le Bon Mot (+%.2[5]f %[6]s/review)
%[1]s

📝 Step 5/6: Instructions

Describe what you want:
• Points to mention
• Desired tone (professional, casual...)
• Target average rating
• Important keywords

Or type "skip" for generic reviews.`,
		divider,
		models.PlatformLabel(draft.Platform),
		draft.Quantity,
		truncate(draft.TargetLink, 30),
		GenerationFee,
		CurrencyLabel)
}

// RecapText builds the order summary shown at the validation step. The price
// is always computed here from the live draft, never cached earlier.
func RecapText(draft OrderDraft) string {
	price := Price(draft.Quantity, draft.ContentGeneration)

	generation := "You provide the content"
	if draft.ContentGeneration {
		generation = fmt.Sprintf("Yes (+%.2f %s/review)", GenerationFee, CurrencyLabel)
	}

	instructions := draft.Instructions
	if instructions == "" {
		instructions = "None"
	}

	return fmt.Sprintf(`📋 Order summary

%[1]s
📊 Platform: %[2]s
🔢 Reviews: %[3]d
📍 Target URL: %[4]s
💭 Instructions: %[5]s
🤖 Generation: %[6]s
%[1]s
💰 Total price: %[7]s
%[1]s

📝 Step 6/6: Validation

Check the information above.
Do you want to confirm this order?`,
		divider,
		models.PlatformLabel(draft.Platform),
		draft.Quantity,
		truncate(draft.TargetLink, 50),
		truncate(instructions, 50),
		generation,
		FormatPrice(price))
}

// ConfirmationText is sent after the order is created.
func ConfirmationText(order *models.Order) string {
	generation := "No"
	if order.ContentGeneration {
		generation = "Yes"
	}

	return fmt.Sprintf(`✅ Order confirmed!

%[1]s
📋 Tracking number: #%[2]s
📋 Order reference: %[3]s
%[1]s

📊 Summary:
• Platform: %[4]s
• Reviews: %[5]d
• Generation: %[6]s
• Total price: %[7]s
%[1]s

💳 Payment

Bitcoin address:
%[8]s

⚠️ IMPORTANT - NETWORK FEES
• Account for your wallet's network fees
• The received amount must be exactly %[7]s

📞 Next steps:
1. Send the payment to the address above
2. Our support will confirm reception
3. Confirmation within 2h

⏳ Delivery: 48-72h after payment confirmation

💡 Need help? Use "Contact support" from the main menu.`,
		divider,
		order.TrackingID,
		order.OrderID,
		models.PlatformLabel(order.Platform),
		order.Quantity,
		generation,
		FormatPrice(order.Price),
		PaymentAddress)
}

// OrdersListText renders the client's last orders (at most ten).
func OrdersListText(orders []*models.Order) string {
	if len(orders) == 0 {
		return "📦 My orders\n\nYou have no orders yet.\n\nStart your first order!\n\n" + divider
	}

	var b strings.Builder
	b.WriteString("📦 My orders\n\n" + divider + "\n")

	if len(orders) > 10 {
		orders = orders[:10]
	}
	for _, order := range orders {
		fmt.Fprintf(&b, "%s\n", order.OrderID)
		fmt.Fprintf(&b, "📊 %s\n", models.PlatformLabel(order.Platform))
		fmt.Fprintf(&b, "🔢 %d reviews\n", order.Quantity)
		fmt.Fprintf(&b, "💰 %s\n", FormatPrice(order.Price))
		fmt.Fprintf(&b, "💬 %s\n", models.StatusLabel(order.Status))
		b.WriteString(divider + "\n")
	}
	return b.String()
}

// GuaranteesText is the static guarantees page.
func GuaranteesText() string {
	return fmt.Sprintf(`🛡️ Guarantees and security

%[1]s
✅ GUARANTEES
%[1]s
• 100%% authentic, verified reviews
• Delivery guaranteed within 72h
• Free replacement on any issue
• Satisfaction or refund
• Responsive 24/7 support

%[1]s
🔒 SECURITY & ANONYMITY
%[1]s
• Total anonymity guaranteed
• No personal data stored
• Real IPs only
• Verified, active accounts
• Secure crypto payment

%[1]s
💳 PAYMENT METHODS
%[1]s
• Bitcoin (BTC)
• Ethereum (ETH)
• USDT (TRC20/ERC20)
• Other cryptos on request`, divider)
}

// SupportIntroText opens support mode.
func SupportIntroText(ticket string) string {
	return fmt.Sprintf(`💬 Contact support

%[1]s
📧 Ticket created: #%[2]s
⏱️ Response time: < 2h
%[1]s

Send your question directly here.
Our team will answer within 2 hours.

💡 All your messages are forwarded to support until you return to the menu.`, divider, ticket)
}

// SupportAckText confirms a forwarded support message.
func SupportAckText() string {
	return `✅ Message sent to support

Your message has been forwarded.
Our team will get back to you shortly.

To return to the main menu, use the button below:`
}

// EditRestartText explains the restart-only edit semantics.
func EditRestartText() string {
	return "✏️ Edit order\n\nTo change your order, start again from the main menu."
}

// InvalidQuantityText re-prompts after non-numeric or sub-minimum input.
func InvalidQuantityText() string {
	return "❌ Please enter a valid number (minimum 1)."
}

// Administrative notification templates, delivered through the bridge.

// WorkerApprovedText notifies a worker of account approval.
func WorkerApprovedText() string {
	return "🎉 Congratulations!\n\nYour worker account has been approved!\n\nYou now have access to the available tasks.\nSend \"start\" to begin earning."
}

// WorkerBlockedText notifies a worker of an account block.
func WorkerBlockedText() string {
	return "🚫 Your account has been blocked.\n\nPlease contact support for more information."
}

// TaskValidatedText notifies a worker that a submission was accepted.
func TaskValidatedText(taskID string, reward, newBalance float64) string {
	return fmt.Sprintf(`✅ Task validated!

Task #%s
💰 +%s added to your balance

New balance: %s

Keep it up! 🎉`, taskID, FormatPrice(reward), FormatPrice(newBalance))
}

// TaskRejectedText notifies a worker that a submission was rejected.
func TaskRejectedText(taskID string) string {
	return fmt.Sprintf(`❌ Task rejected

Task #%s

Your submission was not accepted.
The task is available again.

Make sure to follow the instructions for your next tasks.`, taskID)
}

// SupportReplyText prefixes an admin support reply with the fixed role label.
func SupportReplyText(message string) string {
	return fmt.Sprintf("👨‍💼 Support: %s", message)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
