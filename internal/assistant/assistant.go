package assistant

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shoebot/storefront/internal/catalog"
	"github.com/shoebot/storefront/internal/chat"
	"github.com/shoebot/storefront/internal/store"
)

// Assistant is a rule-based shopping assistant. It matches keywords in
// the message against a handful of intents and, for cart intents,
// resolves a concrete product variant so the client can mutate its cart.
type Assistant struct {
	products *store.ProductStore
	logger   *slog.Logger
}

// New creates an assistant over the given catalog
func New(products *store.ProductStore, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{products: products, logger: logger}
}

// Reply produces the assistant's answer for one user message
func (a *Assistant) Reply(message string) chat.Response {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return chat.Response{
			Response: "Tell me what kind of shoes you're looking for and I'll find something.",
		}
	}

	switch {
	case containsAny(normalized, "add", "buy", "take", "i'll have"):
		return a.addToCart(normalized)
	case containsAny(normalized, "remove", "take out", "delete"):
		return a.removeFromCart(normalized)
	case containsAny(normalized, "checkout", "check out", "pay", "order"):
		return chat.Response{
			Response: "You can check out any time. Review your cart, then place the order with your shipping details.",
			Intent:   chat.IntentCheckoutHelp,
		}
	case containsAny(normalized, "show", "recommend", "looking for", "suggest", "shoes", "sneaker"):
		return a.recommend(normalized)
	default:
		return chat.Response{
			Response: "I can show you products, add them to your cart, or help with checkout. What would you like?",
		}
	}
}

// recommend returns catalog matches for the message keywords
func (a *Assistant) recommend(message string) chat.Response {
	matches := a.matchProducts(message)
	if len(matches) == 0 {
		matches = a.products.List()
	}
	if len(matches) > 3 {
		matches = matches[:3]
	}

	return chat.Response{
		Response: "Here are some shoes you might like:",
		Products: matches,
		Intent:   chat.IntentShowProducts,
	}
}

// addToCart resolves the mentioned product and the named variant. An add
// that names no size or color, or one the product is not offered in, gets
// a clarification reply instead of a guessed variant: the product rides
// along so the client can show the options, and no intent is attached.
func (a *Assistant) addToCart(message string) chat.Response {
	matches := a.matchProducts(message)
	if len(matches) == 0 {
		return chat.Response{
			Response: "I couldn't tell which shoe you meant. Could you give me the name or brand?",
		}
	}

	product := matches[0]
	size, sizeOK := pickOption(message, product.Sizes)
	color, colorOK := pickOption(message, product.Colors)
	if !sizeOK || !colorOK {
		return a.clarifyVariant(product)
	}

	a.logger.Debug("assistant resolved add_to_cart",
		"product_id", product.ID,
		"size", size,
		"color", color,
	)

	return chat.Response{
		Response: fmt.Sprintf("Adding the %s in %s, size %s.", product.Name, color, size),
		Products: []catalog.Product{product},
		Intent:   chat.IntentAddToCart,
		Selection: &chat.Selection{
			ProductID: product.ID,
			Size:      size,
			Color:     color,
			Quantity:  1,
		},
	}
}

// removeFromCart resolves the mentioned product for removal. Size and
// color stay empty when the message names none; the client resolves the
// line against the cart it holds.
func (a *Assistant) removeFromCart(message string) chat.Response {
	matches := a.matchProducts(message)
	if len(matches) == 0 {
		return chat.Response{
			Response: "Which shoe should I take out of your cart?",
		}
	}

	product := matches[0]
	size, _ := pickOption(message, product.Sizes)
	color, _ := pickOption(message, product.Colors)

	return chat.Response{
		Response: fmt.Sprintf("Taking the %s out of your cart.", product.Name),
		Products: []catalog.Product{product},
		Intent:   chat.IntentRemoveFromCart,
		Selection: &chat.Selection{
			ProductID: product.ID,
			Size:      size,
			Color:     color,
		},
	}
}

// matchProducts returns catalog entries mentioned in the message. A
// product matches on its full name, its brand or category, or any
// distinctive word of its name, so "the ultraboost" finds the Adidas
// Ultraboost.
func (a *Assistant) matchProducts(message string) []catalog.Product {
	var matches []catalog.Product
	for _, p := range a.products.List() {
		if a.mentions(message, p) {
			matches = append(matches, p)
		}
	}
	return matches
}

func (a *Assistant) mentions(message string, p catalog.Product) bool {
	for _, token := range []string{p.Name, p.Brand, p.Category} {
		if token != "" && strings.Contains(message, strings.ToLower(token)) {
			return true
		}
	}
	for _, word := range strings.Fields(strings.ToLower(p.Name)) {
		if len(word) > 3 && strings.Contains(message, word) {
			return true
		}
	}
	return false
}

// clarifyVariant asks for a concrete size and color. No intent means the
// client will not touch the cart for this reply.
func (a *Assistant) clarifyVariant(p catalog.Product) chat.Response {
	return chat.Response{
		Response: fmt.Sprintf(
			"Which size and color would you like? The %s comes in sizes %s and colors %s.",
			p.Name,
			strings.Join(p.Sizes, ", "),
			strings.Join(p.Colors, ", "),
		),
		Products: []catalog.Product{p},
	}
}

// pickOption returns the offered option the message names, if any
func pickOption(message string, options []string) (string, bool) {
	for _, opt := range options {
		if containsWord(message, strings.ToLower(opt)) {
			return opt, true
		}
	}
	return "", false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// containsWord matches opt as a whole word so size "1" does not match
// inside "10"
func containsWord(s, opt string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '?' || r == '!'
	})
	for _, f := range fields {
		if f == opt {
			return true
		}
	}
	return false
}
