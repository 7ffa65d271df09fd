package chat

import (
	"time"

	"github.com/shoebot/storefront/internal/catalog"
)

// Role of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Intent tags the assistant can attach to a reply. Only the first two are
// cart-affecting.
const (
	IntentAddToCart      = "add_to_cart"
	IntentRemoveFromCart = "remove_from_cart"
	IntentShowProducts   = "show_products"
	IntentCheckoutHelp   = "checkout_help"
)

// Message is one transcript entry. The transcript is append-only for the
// session: messages are never edited once appended.
type Message struct {
	Role     Role
	Text     string
	Products []catalog.Product
	Intent   string
	Time     time.Time
}

// Selection is a fully resolved variant the assistant extracted from the
// user's turn. Present only when the intent is cart-affecting and the
// request named the variant.
type Selection struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity,omitempty"`
}

// Response is the assistant reply from POST /api/chat/message. The language
// understanding behind it is an opaque upstream contract; the client only
// interprets the intent tag and the optional selection.
type Response struct {
	Response  string            `json:"response"`
	Products  []catalog.Product `json:"products,omitempty"`
	Intent    string            `json:"intent,omitempty"`
	Selection *Selection        `json:"selection,omitempty"`
}

// CartAffecting reports whether the intent requires reconciling the cart.
func CartAffecting(intent string) bool {
	return intent == IntentAddToCart || intent == IntentRemoveFromCart
}
