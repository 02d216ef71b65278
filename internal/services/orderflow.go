package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/lebonmot/reviews-backend/internal/models"
	"github.com/lebonmot/reviews-backend/internal/storage"
	"github.com/lebonmot/reviews-backend/internal/utils"
)

// Button is one selectable action offered with a prompt.
type Button struct {
	Label string
	Code  string
}

// Reply is the outbound prompt produced for one inbound event.
type Reply struct {
	Text    string
	Buttons []Button
}

// Empty reports whether there is nothing to send (silently ignored event).
func (r Reply) Empty() bool {
	return r.Text == ""
}

// Render flattens the reply into a single outbound message body, listing
// the available action codes under the prompt.
func (r Reply) Render() string {
	if len(r.Buttons) == 0 {
		return r.Text
	}
	var b strings.Builder
	b.WriteString(r.Text)
	b.WriteString("\n\nReply with one of:")
	for _, btn := range r.Buttons {
		fmt.Fprintf(&b, "\n• %s — %s", btn.Code, btn.Label)
	}
	return b.String()
}

func button(label string, action Action) Button {
	return Button{Label: label, Code: action.Code()}
}

// OrderFlowEngine drives a user through the order conversation. It is a
// strict state machine over (current step, event): any event that is not
// valid for the current step re-prompts with the step's menu and mutates
// nothing. All session mutation happens inside SessionStore.Update, so a
// transition is computed and applied atomically before any outbound I/O.
type OrderFlowEngine struct {
	store    storage.Store
	sessions *SessionStore
}

// NewOrderFlowEngine creates an order flow engine
func NewOrderFlowEngine(store storage.Store, sessions *SessionStore) *OrderFlowEngine {
	return &OrderFlowEngine{
		store:    store,
		sessions: sessions,
	}
}

// Sessions exposes the session store (for monitoring).
func (e *OrderFlowEngine) Sessions() *SessionStore {
	return e.sessions
}

// HandleEvent processes one inbound user event, either a callback action or
// free text, and returns the outbound prompt. An empty reply means the event
// was silently ignored.
func (e *OrderFlowEngine) HandleEvent(phone, input string) (Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reply{}, nil
	}

	client, err := e.store.GetOrCreateClient(phone)
	if err != nil {
		return Reply{Text: "❌ Sorry, something went wrong. Please try again."}, fmt.Errorf("get or create client: %w", err)
	}

	var reply Reply
	e.sessions.Update(phone, func(s *ClientSession) {
		if action, ok := ParseAction(input); ok {
			reply = e.handleAction(s, client, action)
			return
		}
		if LooksLikeCallback(input) && !s.SupportMode && s.Awaiting == AwaitingNone {
			// Stray or unknown button press: ignore without changing the prompt
			return
		}
		reply = e.handleText(s, client, input)
	})
	return reply, nil
}

func (e *OrderFlowEngine) handleAction(s *ClientSession, client *models.Client, action Action) Reply {
	// Support mode freezes the step machine until the user returns to the menu
	if s.SupportMode && action != ActionBackMenu {
		return Reply{
			Text:    "💬 You are talking to support. Send your message here.",
			Buttons: []Button{button("Back to menu", ActionBackMenu)},
		}
	}

	switch action {
	case ActionOrderStart:
		s.Reset()
		s.CurrentStep = StepPlatform
		return e.platformMenu()

	case ActionPlatformGoogle, ActionPlatformTrustpilot, ActionPlatformOther:
		if s.CurrentStep != StepPlatform {
			return e.currentPrompt(s, client)
		}
		s.Draft.Platform = platformFor(action)
		s.CurrentStep = StepQuantity
		s.Awaiting = AwaitingQuantity
		return Reply{
			Text:    QuantityPromptText(s.Draft.Platform),
			Buttons: []Button{button("Back", ActionOrderStart)},
		}

	case ActionContentSelf, ActionContentGenerated:
		if s.CurrentStep != StepContentChoice || !s.Draft.ReadyForContentChoice() {
			return e.currentPrompt(s, client)
		}
		s.Draft.ContentChosen = true
		if action == ActionContentSelf {
			s.Draft.ContentGeneration = false
			s.CurrentStep = StepRecap
			return e.recapMenu(s)
		}
		s.Draft.ContentGeneration = true
		s.CurrentStep = StepInstructions
		s.Awaiting = AwaitingInstructions
		return Reply{
			Text:    InstructionsPromptText(s.Draft),
			Buttons: []Button{button("Back", ActionOrderStart)},
		}

	case ActionRecapEdit:
		if s.CurrentStep != StepRecap {
			return e.currentPrompt(s, client)
		}
		// Restart-only edit semantics: no targeted field edit
		s.Reset()
		return Reply{
			Text:    EditRestartText(),
			Buttons: []Button{button("Back to menu", ActionBackMenu)},
		}

	case ActionConfirmFinal:
		return e.finalize(s, client)

	case ActionBackMenu:
		s.Reset()
		return e.welcomeMenu(client)

	case ActionOrdersList:
		return e.ordersList(client)

	case ActionSupportContact:
		s.SupportMode = true
		s.SupportTicket = utils.GenerateTicketNumber()
		return Reply{
			Text:    SupportIntroText(s.SupportTicket),
			Buttons: []Button{button("Back to menu", ActionBackMenu)},
		}

	case ActionInfoGuarantees:
		return Reply{
			Text: GuaranteesText(),
			Buttons: []Button{
				button("Order reviews", ActionOrderStart),
				button("Contact support", ActionSupportContact),
				button("Back to menu", ActionBackMenu),
			},
		}
	}

	// Unknown action: silently ignored
	return Reply{}
}

func (e *OrderFlowEngine) handleText(s *ClientSession, client *models.Client, text string) Reply {
	// Support mode: forward everything verbatim, bypassing the step machine
	if s.SupportMode {
		msg := &models.SupportMessage{
			ClientID: client.ClientID,
			Text:     text,
			Author:   models.SupportAuthorClient,
			Username: client.Username,
		}
		if err := e.store.SaveSupportMessage(msg); err != nil {
			log.Printf("Failed to save support message for %s: %v", client.ClientID, err)
		}
		return Reply{
			Text:    SupportAckText(),
			Buttons: []Button{button("Back to menu", ActionBackMenu)},
		}
	}

	switch s.Awaiting {
	case AwaitingQuantity:
		quantity, err := strconv.Atoi(text)
		if err != nil || quantity < 1 {
			// Recoverable: re-prompt, no state mutation
			return Reply{Text: InvalidQuantityText()}
		}
		s.Draft.Quantity = quantity
		s.CurrentStep = StepURL
		s.Awaiting = AwaitingURL
		return Reply{Text: URLPromptText(s.Draft)}

	case AwaitingURL:
		s.Draft.TargetLink = text
		s.CurrentStep = StepContentChoice
		s.Awaiting = AwaitingNone
		return e.contentChoiceMenu(s)

	case AwaitingInstructions:
		if strings.EqualFold(text, "skip") {
			s.Draft.Instructions = ""
		} else {
			s.Draft.Instructions = text
		}
		s.CurrentStep = StepRecap
		s.Awaiting = AwaitingNone
		return e.recapMenu(s)
	}

	// Free text outside any collecting step re-shows the current prompt
	return e.currentPrompt(s, client)
}

// finalize creates the order exactly once per confirm event. The draft is
// cleared atomically with the repository write, so a duplicate "final" finds
// the session back at idle and is rejected as a no-op.
func (e *OrderFlowEngine) finalize(s *ClientSession, client *models.Client) Reply {
	if s.CurrentStep != StepRecap && s.CurrentStep != StepConfirm {
		return e.currentPrompt(s, client)
	}
	if !s.Draft.ReadyForContentChoice() || !s.Draft.ContentChosen {
		// Fail closed: never dereference absent draft fields
		s.Reset()
		return e.welcomeMenu(client)
	}

	s.CurrentStep = StepConfirm

	order := &models.Order{
		ClientID:          client.ClientID,
		Platform:          s.Draft.Platform,
		Quantity:          s.Draft.Quantity,
		TargetLink:        s.Draft.TargetLink,
		Instructions:      s.Draft.Instructions,
		ContentGeneration: s.Draft.ContentGeneration,
		Price:             Price(s.Draft.Quantity, s.Draft.ContentGeneration),
		TrackingID:        utils.GenerateTrackingNumber(),
	}

	created, err := e.store.CreateOrder(order)
	if err != nil {
		log.Printf("Failed to create order for %s: %v", client.ClientID, err)
		s.CurrentStep = StepRecap
		return Reply{
			Text:    "❌ Your order could not be saved. Please try again.",
			Buttons: []Button{button("Confirm and pay", ActionConfirmFinal), button("Cancel", ActionBackMenu)},
		}
	}

	log.Printf("Order %s created for client %s (%d reviews, %s)",
		created.OrderID, client.ClientID, created.Quantity, FormatPrice(created.Price))

	s.Reset()
	return Reply{
		Text: ConfirmationText(created),
		Buttons: []Button{
			button("My orders", ActionOrdersList),
			button("Contact support", ActionSupportContact),
			button("Back to menu", ActionBackMenu),
		},
	}
}

// currentPrompt re-shows the menu for the session's current step without
// mutating anything.
func (e *OrderFlowEngine) currentPrompt(s *ClientSession, client *models.Client) Reply {
	switch s.CurrentStep {
	case StepPlatform:
		return e.platformMenu()
	case StepQuantity:
		return Reply{
			Text:    QuantityPromptText(s.Draft.Platform),
			Buttons: []Button{button("Back", ActionOrderStart)},
		}
	case StepURL:
		return Reply{Text: URLPromptText(s.Draft)}
	case StepContentChoice:
		return e.contentChoiceMenu(s)
	case StepInstructions:
		return Reply{
			Text:    InstructionsPromptText(s.Draft),
			Buttons: []Button{button("Back", ActionOrderStart)},
		}
	case StepRecap, StepConfirm:
		return e.recapMenu(s)
	default:
		return e.welcomeMenu(client)
	}
}

func (e *OrderFlowEngine) welcomeMenu(client *models.Client) Reply {
	return Reply{
		Text: WelcomeText(client.ClientID),
		Buttons: []Button{
			button("Order reviews", ActionOrderStart),
			button("My orders", ActionOrdersList),
			button("Contact support", ActionSupportContact),
			button("Guarantees", ActionInfoGuarantees),
		},
	}
}

func (e *OrderFlowEngine) platformMenu() Reply {
	return Reply{
		Text: PlatformPromptText(),
		Buttons: []Button{
			button("Google Reviews", ActionPlatformGoogle),
			button("Trustpilot", ActionPlatformTrustpilot),
			button("Other platforms", ActionPlatformOther),
			button("Back to menu", ActionBackMenu),
		},
	}
}

func (e *OrderFlowEngine) contentChoiceMenu(s *ClientSession) Reply {
	return Reply{
		Text: ContentChoicePromptText(s.Draft),
		Buttons: []Button{
			button("I write the reviews", ActionContentSelf),
			button("Le Bon Mot writes", ActionContentGenerated),
			button("Back", ActionOrderStart),
		},
	}
}

func (e *OrderFlowEngine) recapMenu(s *ClientSession) Reply {
	return Reply{
		Text: RecapText(s.Draft),
		Buttons: []Button{
			button("Confirm and pay", ActionConfirmFinal),
			button("Edit", ActionRecapEdit),
			button("Cancel", ActionBackMenu),
		},
	}
}

func (e *OrderFlowEngine) ordersList(client *models.Client) Reply {
	orders, err := e.store.GetClientOrders(client.ClientID)
	if err != nil {
		log.Printf("Failed to list orders for %s: %v", client.ClientID, err)
		return Reply{
			Text:    "❌ Could not load your orders. Please try again.",
			Buttons: []Button{button("Back to menu", ActionBackMenu)},
		}
	}
	buttons := []Button{
		button("New order", ActionOrderStart),
		button("Contact support", ActionSupportContact),
		button("Back to menu", ActionBackMenu),
	}
	if len(orders) == 0 {
		buttons = []Button{button("Order reviews", ActionOrderStart)}
	}
	return Reply{Text: OrdersListText(orders), Buttons: buttons}
}

func platformFor(action Action) string {
	switch action {
	case ActionPlatformGoogle:
		return models.PlatformGoogleReviews
	case ActionPlatformTrustpilot:
		return models.PlatformTrustpilot
	default:
		return models.PlatformOther
	}
}
