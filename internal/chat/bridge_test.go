package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/catalog"
)

type scriptedSender struct {
	resp *Response
	err  error
}

func (s *scriptedSender) SendMessage(context.Context, string) (*Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

// fakeCart records Coordinator calls without doing any real work.
type fakeCart struct {
	mu       sync.Mutex
	snapshot cart.Snapshot

	addCalls     []Selection
	removeCalls  []string
	refreshCalls int
	addErr       error
}

func (f *fakeCart) Add(_ context.Context, p catalog.Product, size, color string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.addCalls = append(f.addCalls, Selection{ProductID: p.ID, Size: size, Color: color, Quantity: quantity})
	return nil
}

func (f *fakeCart) Remove(_ context.Context, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls = append(f.removeCalls, lineID)
	return nil
}

func (f *fakeCart) Refresh(context.Context) (cart.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	return f.snapshot, nil
}

func (f *fakeCart) Snapshot() cart.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

var trailBlazer = catalog.Product{
	ID:     "p-42",
	Name:   "Trail Blazer",
	Brand:  "Stride",
	Price:  120,
	Sizes:  []string{"8", "9"},
	Colors: []string{"red", "black"},
}

func TestSendAppendsUserAndAssistantTurns(t *testing.T) {
	sender := &scriptedSender{resp: &Response{Response: "We have great running shoes!"}}
	bridge := NewBridge(sender, &fakeCart{}, nil)

	reply, err := bridge.Send(context.Background(), "what do you recommend?")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, reply.Role)

	msgs := bridge.Messages()
	require.Len(t, msgs, 3) // greeting, user, assistant
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, "what do you recommend?", msgs[1].Text)
	assert.Equal(t, "We have great running shoes!", msgs[2].Text)
}

func TestSendAddIntentMutatesThroughCoordinator(t *testing.T) {
	sender := &scriptedSender{resp: &Response{
		Response: "Adding it now.",
		Products: []catalog.Product{trailBlazer},
		Intent:   IntentAddToCart,
		Selection: &Selection{
			ProductID: "p-42",
			Size:      "9",
			Color:     "red",
		},
	}}
	store := &fakeCart{}
	bridge := NewBridge(sender, store, nil)

	_, err := bridge.Send(context.Background(), "add the trail blazer size 9 in red")
	require.NoError(t, err)

	require.Len(t, store.addCalls, 1)
	call := store.addCalls[0]
	assert.Equal(t, "p-42", call.ProductID)
	assert.Equal(t, "9", call.Size)
	assert.Equal(t, "red", call.Color)
	assert.Equal(t, 1, call.Quantity, "chat-originated adds default to quantity 1")

	msgs := bridge.Messages()
	last := msgs[len(msgs)-1]
	assert.Contains(t, last.Text, "added the Trail Blazer")
}

func TestSendIntentWithoutSelectionOnlyRefreshes(t *testing.T) {
	// Legacy-shaped reply: the server performed the add itself, so the
	// client only re-derives the authoritative snapshot.
	sender := &scriptedSender{resp: &Response{
		Response: "I've added that to your cart.",
		Intent:   IntentAddToCart,
	}}
	store := &fakeCart{}
	bridge := NewBridge(sender, store, nil)

	_, err := bridge.Send(context.Background(), "add it")
	require.NoError(t, err)

	assert.Empty(t, store.addCalls)
	assert.Equal(t, 1, store.refreshCalls)
}

func TestSendRemoveIntent(t *testing.T) {
	lineID := "line-7"
	store := &fakeCart{snapshot: cart.Snapshot{Items: []cart.Line{{
		ID:       lineID,
		Product:  trailBlazer,
		Size:     "9",
		Color:    "red",
		Quantity: 1,
	}}, Total: 120}}
	sender := &scriptedSender{resp: &Response{
		Response:  "Removing it.",
		Products:  []catalog.Product{trailBlazer},
		Intent:    IntentRemoveFromCart,
		Selection: &Selection{ProductID: "p-42", Size: "9", Color: "red"},
	}}
	bridge := NewBridge(sender, store, nil)

	_, err := bridge.Send(context.Background(), "remove the trail blazer")
	require.NoError(t, err)
	assert.Equal(t, []string{lineID}, store.removeCalls)
}

func TestSendRemoveIntentProductOnlySelectionResolvesSingleLine(t *testing.T) {
	// The assistant sends size and color empty when the user named none;
	// with a single line of the product in the cart that line is removed.
	lineID := "line-9"
	store := &fakeCart{snapshot: cart.Snapshot{Items: []cart.Line{{
		ID:       lineID,
		Product:  trailBlazer,
		Size:     "8",
		Color:    "black",
		Quantity: 2,
	}}, Total: 240}}
	sender := &scriptedSender{resp: &Response{
		Response:  "Removing it.",
		Products:  []catalog.Product{trailBlazer},
		Intent:    IntentRemoveFromCart,
		Selection: &Selection{ProductID: "p-42"},
	}}
	bridge := NewBridge(sender, store, nil)

	_, err := bridge.Send(context.Background(), "remove the trail blazer")
	require.NoError(t, err)
	assert.Equal(t, []string{lineID}, store.removeCalls)
}

func TestSendRemoveIntentProductOnlySelectionAmbiguous(t *testing.T) {
	store := &fakeCart{snapshot: cart.Snapshot{Items: []cart.Line{
		{ID: "line-1", Product: trailBlazer, Size: "8", Color: "black", Quantity: 1},
		{ID: "line-2", Product: trailBlazer, Size: "9", Color: "red", Quantity: 1},
	}, Total: 240}}
	sender := &scriptedSender{resp: &Response{
		Response:  "Removing it.",
		Products:  []catalog.Product{trailBlazer},
		Intent:    IntentRemoveFromCart,
		Selection: &Selection{ProductID: "p-42"},
	}}
	bridge := NewBridge(sender, store, nil)

	_, err := bridge.Send(context.Background(), "remove the trail blazer")
	require.NoError(t, err)

	// Two variants match: nothing is removed and the user is asked to
	// narrow it down.
	assert.Empty(t, store.removeCalls)
	msgs := bridge.Messages()
	assert.Contains(t, msgs[len(msgs)-1].Text, "Which size and color")
}

func TestSendRemoveIntentLineNotInCart(t *testing.T) {
	sender := &scriptedSender{resp: &Response{
		Response:  "Removing it.",
		Products:  []catalog.Product{trailBlazer},
		Intent:    IntentRemoveFromCart,
		Selection: &Selection{ProductID: "p-42", Size: "9", Color: "red"},
	}}
	store := &fakeCart{}
	bridge := NewBridge(sender, store, nil)

	_, err := bridge.Send(context.Background(), "remove the trail blazer")
	require.NoError(t, err)

	assert.Empty(t, store.removeCalls)
	msgs := bridge.Messages()
	assert.Contains(t, msgs[len(msgs)-1].Text, "couldn't find")
}

func TestSendFailureAppendsApology(t *testing.T) {
	sender := &scriptedSender{err: cart.ErrTransport}
	bridge := NewBridge(sender, &fakeCart{}, nil)

	reply, err := bridge.Send(context.Background(), "hello?")
	require.Error(t, err)

	// Apology carries no retry state; the user must re-issue the request.
	assert.Contains(t, reply.Text, "Sorry")
	msgs := bridge.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello?", msgs[1].Text)
	assert.Equal(t, reply.Text, msgs[2].Text)
}

func TestSendUnauthorizedSkipsApology(t *testing.T) {
	sender := &scriptedSender{err: cart.ErrUnauthorized}
	bridge := NewBridge(sender, &fakeCart{}, nil)

	_, err := bridge.Send(context.Background(), "hello?")
	require.Error(t, err)
	assert.True(t, cart.IsUnauthorized(err))

	// Session teardown is the caller's job; no apology is appended.
	msgs := bridge.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[1].Role)
}

func TestAddRecommendedValidatesBeforeNetwork(t *testing.T) {
	store := &fakeCart{}
	bridge := NewBridge(&scriptedSender{}, store, nil)

	err := bridge.AddRecommended(context.Background(), trailBlazer, "9", "")
	require.Error(t, err)
	assert.True(t, cart.IsInvalidVariant(err))
	assert.Empty(t, store.addCalls, "incomplete selection must not reach the cart")

	err = bridge.AddRecommended(context.Background(), trailBlazer, "13", "red")
	require.Error(t, err)
	assert.True(t, cart.IsInvalidVariant(err))

	require.NoError(t, bridge.AddRecommended(context.Background(), trailBlazer, "9", "red"))
	require.Len(t, store.addCalls, 1)
	assert.Equal(t, 1, store.addCalls[0].Quantity)
}

func TestAddRecommendedFailureAppendsApology(t *testing.T) {
	store := &fakeCart{addErr: errors.New("out of stock")}
	bridge := NewBridge(&scriptedSender{}, store, nil)

	err := bridge.AddRecommended(context.Background(), trailBlazer, "9", "red")
	require.Error(t, err)

	msgs := bridge.Messages()
	assert.Contains(t, msgs[len(msgs)-1].Text, "couldn't add")
}
