package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/catalog"
)

const greeting = "Hello! I'm here to help you find the perfect shoes. " +
	"You can ask me to show you products, add items to your cart, or help with checkout!"

// Sender performs one chat round trip against the assistant endpoint.
type Sender interface {
	SendMessage(ctx context.Context, message string) (*Response, error)
}

// CartService is the slice of the cart Coordinator the bridge uses. The
// bridge never touches the snapshot directly: every mutation goes through
// the Coordinator, preserving the single-writer invariant.
type CartService interface {
	Add(ctx context.Context, p catalog.Product, size, color string, quantity int) error
	Remove(ctx context.Context, lineID string) error
	Refresh(ctx context.Context) (cart.Snapshot, error)
	Snapshot() cart.Snapshot
}

// Bridge owns the session transcript and reconciles assistant replies that
// carry a cart-mutating intent. Messages live only for the session; there
// is no persistence.
type Bridge struct {
	sender Sender
	cart   CartService
	logger *slog.Logger

	mu       sync.Mutex
	messages []Message
}

// NewBridge returns a bridge whose transcript is seeded with the assistant
// greeting.
func NewBridge(sender Sender, cartSvc CartService, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{sender: sender, cart: cartSvc, logger: logger}
	b.append(Message{Role: RoleAssistant, Text: greeting, Time: time.Now()})
	return b
}

// Messages returns a copy of the transcript in append order.
func (b *Bridge) Messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, len(b.messages))
	copy(out, b.messages)
	return out
}

func (b *Bridge) append(m Message) {
	b.mu.Lock()
	b.messages = append(b.messages, m)
	b.mu.Unlock()
}

// Send posts one user turn, appends the assistant reply, and reconciles any
// cart-affecting intent through the Coordinator. On failure an apology is
// appended carrying no retry state — the user must re-issue the request.
// An unauthorized error is returned without an apology so the caller can
// tear down the session.
func (b *Bridge) Send(ctx context.Context, text string) (Message, error) {
	b.append(Message{Role: RoleUser, Text: text, Time: time.Now()})

	resp, err := b.sender.SendMessage(ctx, text)
	if err != nil {
		if cart.IsUnauthorized(err) {
			return Message{}, err
		}
		b.logger.Warn("chat turn failed", "error", err)
		apology := Message{
			Role: RoleAssistant,
			Text: "Sorry, I encountered an error. Please try again or contact support.",
			Time: time.Now(),
		}
		b.append(apology)
		return apology, err
	}

	reply := Message{
		Role:     RoleAssistant,
		Text:     resp.Response,
		Products: resp.Products,
		Intent:   resp.Intent,
		Time:     time.Now(),
	}
	b.append(reply)

	if CartAffecting(resp.Intent) {
		b.reconcile(ctx, resp)
	}
	return reply, nil
}

// reconcile applies a cart-affecting intent. With a selection the bridge
// performs the mutation itself; without one the server already applied the
// change and only the authoritative snapshot needs re-deriving.
func (b *Bridge) reconcile(ctx context.Context, resp *Response) {
	if resp.Selection == nil {
		if _, err := b.cart.Refresh(ctx); err != nil {
			b.logger.Warn("post-intent cart refresh failed", "intent", resp.Intent, "error", err)
		}
		return
	}

	sel := *resp.Selection
	product, ok := findProduct(resp.Products, sel.ProductID)
	if !ok {
		b.logger.Warn("intent selection references no attached product", "product_id", sel.ProductID)
		if _, err := b.cart.Refresh(ctx); err != nil {
			b.logger.Warn("post-intent cart refresh failed", "intent", resp.Intent, "error", err)
		}
		return
	}

	switch resp.Intent {
	case IntentAddToCart:
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		b.confirmMutation(
			b.cart.Add(ctx, product, sel.Size, sel.Color, qty),
			fmt.Sprintf("Great! I've added the %s in %s (size %s) to your cart.", product.Name, sel.Color, sel.Size),
			"Sorry, I couldn't add that item to your cart. Please try again.",
		)
	case IntentRemoveFromCart:
		line, found, ambiguous := resolveRemoval(b.cart.Snapshot(), sel)
		if ambiguous {
			b.append(Message{
				Role: RoleAssistant,
				Text: fmt.Sprintf("You have more than one %s in your cart. Which size and color should I remove?", product.Name),
				Time: time.Now(),
			})
			return
		}
		if !found {
			b.append(Message{
				Role: RoleAssistant,
				Text: fmt.Sprintf("I couldn't find the %s in your cart.", product.Name),
				Time: time.Now(),
			})
			return
		}
		b.confirmMutation(
			b.cart.Remove(ctx, line.ID),
			fmt.Sprintf("Done, I've removed the %s from your cart.", product.Name),
			"Sorry, I couldn't remove that item from your cart. Please try again.",
		)
	}
}

// AddRecommended adds a product the assistant recommended in-chat, with the
// size and color the user picked. The selection is validated before any
// request is sent, and the outcome is appended to the transcript.
func (b *Bridge) AddRecommended(ctx context.Context, p catalog.Product, size, color string) error {
	switch catalog.ValidateSelection(p, size, color) {
	case catalog.SelectionIncomplete:
		b.append(Message{
			Role: RoleAssistant,
			Text: "Please pick both a size and a color first.",
			Time: time.Now(),
		})
		return fmt.Errorf("%w: size and color must both be chosen", cart.ErrInvalidVariant)
	case catalog.SelectionInvalid:
		b.append(Message{
			Role: RoleAssistant,
			Text: fmt.Sprintf("The %s isn't offered in size %s / %s.", p.Name, size, color),
			Time: time.Now(),
		})
		return fmt.Errorf("%w: %s in size %q color %q", cart.ErrInvalidVariant, p.Name, size, color)
	}

	err := b.cart.Add(ctx, p, size, color, 1)
	b.confirmMutation(
		err,
		fmt.Sprintf("Great! I've added the %s in %s (size %s) to your cart.", p.Name, color, size),
		"Sorry, I couldn't add that item to your cart. Please try again.",
	)
	return err
}

func (b *Bridge) confirmMutation(err error, confirmation, apology string) {
	text := confirmation
	if err != nil {
		b.logger.Warn("chat cart mutation failed", "error", err)
		text = apology
	}
	b.append(Message{Role: RoleAssistant, Text: text, Time: time.Now()})
}

// resolveRemoval finds the cart line a removal selection refers to. A
// selection naming both size and color resolves by exact key. One naming
// only the product (or one dimension) resolves when exactly one line
// matches; several matches are ambiguous and the user must narrow it down.
func resolveRemoval(snap cart.Snapshot, sel Selection) (line cart.Line, found, ambiguous bool) {
	if sel.Size != "" && sel.Color != "" {
		key := cart.LineKey{ProductID: sel.ProductID, Size: sel.Size, Color: sel.Color}
		l, ok := snap.LineByKey(key)
		return l, ok, false
	}

	var matches []cart.Line
	for _, l := range snap.Items {
		if l.Product.ID != sel.ProductID {
			continue
		}
		if sel.Size != "" && l.Size != sel.Size {
			continue
		}
		if sel.Color != "" && l.Color != sel.Color {
			continue
		}
		matches = append(matches, l)
	}
	switch len(matches) {
	case 0:
		return cart.Line{}, false, false
	case 1:
		return matches[0], true, false
	default:
		return cart.Line{}, false, true
	}
}

func findProduct(products []catalog.Product, id string) (catalog.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}
