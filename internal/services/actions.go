package services

import "regexp"

// Action is the closed set of selectable chat actions. Callbacks arrive on
// the wire as "category:param" strings and are parsed into this enum so
// every dispatch site can switch over it exhaustively.
type Action int

// Chat actions
const (
	ActionUnknown Action = iota
	ActionOrderStart
	ActionPlatformGoogle
	ActionPlatformTrustpilot
	ActionPlatformOther
	ActionContentSelf
	ActionContentGenerated
	ActionRecapEdit
	ActionConfirmFinal
	ActionBackMenu
	ActionOrdersList
	ActionSupportContact
	ActionInfoGuarantees
)

var actionCodes = map[string]Action{
	"order:start":               ActionOrderStart,
	"order:platform_google":     ActionPlatformGoogle,
	"order:platform_trustpilot": ActionPlatformTrustpilot,
	"order:platform_other":      ActionPlatformOther,
	"order:content_self":        ActionContentSelf,
	"order:content_generated":   ActionContentGenerated,
	"recap:edit":                ActionRecapEdit,
	"confirm:final":             ActionConfirmFinal,
	"back:menu":                 ActionBackMenu,
	"orders:list":               ActionOrdersList,
	"support:contact":           ActionSupportContact,
	"info:guarantees":           ActionInfoGuarantees,
}

var actionNames = map[Action]string{
	ActionOrderStart:         "order:start",
	ActionPlatformGoogle:     "order:platform_google",
	ActionPlatformTrustpilot: "order:platform_trustpilot",
	ActionPlatformOther:      "order:platform_other",
	ActionContentSelf:        "order:content_self",
	ActionContentGenerated:   "order:content_generated",
	ActionRecapEdit:          "recap:edit",
	ActionConfirmFinal:       "confirm:final",
	ActionBackMenu:           "back:menu",
	ActionOrdersList:         "orders:list",
	ActionSupportContact:     "support:contact",
	ActionInfoGuarantees:     "info:guarantees",
}

// callbackPattern matches the wire shape of a callback code. Free text such
// as URLs never matches (the "//" and dots break the pattern).
var callbackPattern = regexp.MustCompile(`^[a-z]+:[a-z_]+$`)

// ParseAction resolves a wire code to its Action. ok is false for anything
// that is not a known code.
func ParseAction(input string) (Action, bool) {
	action, ok := actionCodes[input]
	return action, ok
}

// LooksLikeCallback reports whether the input has the "category:param" shape
// even if the pair is unknown. Unknown pairs are silently ignored rather
// than treated as free text.
func LooksLikeCallback(input string) bool {
	return callbackPattern.MatchString(input)
}

// Code returns the wire encoding of the action.
func (a Action) Code() string {
	return actionNames[a]
}
