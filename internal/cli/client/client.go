package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/catalog"
	"github.com/shoebot/storefront/internal/chat"
	"github.com/shoebot/storefront/internal/cli/types"
)

// APIClient wraps a Hertz client for the storefront API. It attaches the
// bearer token to every request and maps failures onto the cart error
// taxonomy; nothing above it ever inspects an HTTP status code.
//
// It satisfies cart.Client and chat.Sender.
type APIClient struct {
	client *client.Client
	server string
	token  string
}

// NewAPIClient creates an API client for the given server. An empty token
// is valid for the unauthenticated endpoints (register, login).
func NewAPIClient(server, token string) (*APIClient, error) {
	normalized, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithMaxIdleConnDuration(60*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &APIClient{client: c, server: normalized, token: token}, nil
}

// normalizeServerURL ensures the server address has a scheme and no
// trailing path.
func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// do performs one round trip and returns the response body and status.
// A transport-level failure comes back wrapped in cart.ErrTransport; a 401
// as cart.ErrUnauthorized.
func (c *APIClient) do(ctx context.Context, method, path string, body interface{}) ([]byte, int, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(method)
	req.SetRequestURI(c.server + path)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		req.Header.SetContentTypeBytes([]byte("application/json"))
		req.SetBody(payload)
	}

	if err := c.client.Do(ctx, req, resp); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", cart.ErrTransport, err)
	}

	status := resp.StatusCode()
	out := append([]byte(nil), resp.Body()...)
	if status == consts.StatusUnauthorized {
		return out, status, fmt.Errorf("%w: %s", cart.ErrUnauthorized, serverMessage(out))
	}
	return out, status, nil
}

// doJSON performs a round trip and decodes a 2xx envelope into out.
func (c *APIClient) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	respBody, status, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("request failed (HTTP %d): %s", status, serverMessage(respBody))
	}
	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// serverMessage extracts the envelope message from an error body, falling
// back to the raw body.
func serverMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	if len(body) == 0 {
		return "no response body"
	}
	return string(body)
}

// Register creates a new account.
func (c *APIClient) Register(ctx context.Context, username, password string) (*types.User, error) {
	var resp types.APIResponse[*types.User]
	reqBody := types.RegisterRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, consts.MethodPost, endpointRegister, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return resp.Data, nil
}

// Login authenticates and returns the session token.
func (c *APIClient) Login(ctx context.Context, username, password string) (*types.LoginData, error) {
	var resp types.APIResponse[*types.LoginData]
	reqBody := types.LoginRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, consts.MethodPost, endpointLogin, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.Data == nil || resp.Data.Token == "" {
		return nil, fmt.Errorf("login failed: empty token in response")
	}
	return resp.Data, nil
}

// ListProducts fetches the whole catalog.
func (c *APIClient) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var resp types.APIResponse[types.ListData[catalog.Product]]
	if err := c.doJSON(ctx, consts.MethodGet, endpointProducts, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return resp.Data.Items, nil
}

// GetProduct fetches one product by id.
func (c *APIClient) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	var resp types.APIResponse[catalog.Product]
	path := fmt.Sprintf(endpointProductByID, url.PathEscape(id))
	if err := c.doJSON(ctx, consts.MethodGet, path, nil, &resp); err != nil {
		return catalog.Product{}, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return resp.Data, nil
}

// SearchProducts fetches catalog entries matching the query.
func (c *APIClient) SearchProducts(ctx context.Context, query string) ([]catalog.Product, error) {
	var resp types.APIResponse[types.ListData[catalog.Product]]
	path := endpointProductsSearch + "?q=" + url.QueryEscape(query)
	if err := c.doJSON(ctx, consts.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("product search failed: %w", err)
	}
	return resp.Data.Items, nil
}

// FetchCart retrieves the authoritative cart snapshot.
func (c *APIClient) FetchCart(ctx context.Context) (cart.Snapshot, error) {
	var resp types.APIResponse[cart.Snapshot]
	if err := c.doJSON(ctx, consts.MethodGet, endpointCart, nil, &resp); err != nil {
		return cart.Snapshot{}, cart.NewOpError(cart.OpFetch, err)
	}
	return resp.Data, nil
}

// AddItem adds quantity units of a product variant to the cart. The ack
// carries no snapshot; callers re-fetch.
func (c *APIClient) AddItem(ctx context.Context, productID, size, color string, quantity int) error {
	reqBody := map[string]interface{}{
		"productId": productID,
		"size":      size,
		"color":     color,
		"quantity":  quantity,
	}
	if err := c.doJSON(ctx, consts.MethodPost, endpointCartAdd, reqBody, nil); err != nil {
		return cart.NewOpError(cart.OpAdd, err)
	}
	return nil
}

// UpdateQuantity sets a cart line's quantity.
func (c *APIClient) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	reqBody := map[string]interface{}{
		"itemId":   itemID,
		"quantity": quantity,
	}
	if err := c.doJSON(ctx, consts.MethodPut, endpointCartUpdate, reqBody, nil); err != nil {
		return cart.NewOpError(cart.OpUpdate, err)
	}
	return nil
}

// RemoveItem deletes a cart line.
func (c *APIClient) RemoveItem(ctx context.Context, itemID string) error {
	path := fmt.Sprintf(endpointCartRemove, url.PathEscape(itemID))
	if err := c.doJSON(ctx, consts.MethodDelete, path, nil, nil); err != nil {
		return cart.NewOpError(cart.OpRemove, err)
	}
	return nil
}

// ClearCart empties the cart in a single request.
func (c *APIClient) ClearCart(ctx context.Context) error {
	if err := c.doJSON(ctx, consts.MethodDelete, endpointCartClear, nil, nil); err != nil {
		return cart.NewOpError(cart.OpClear, err)
	}
	return nil
}

// SendMessage posts one chat turn and returns the assistant reply.
func (c *APIClient) SendMessage(ctx context.Context, message string) (*chat.Response, error) {
	var resp types.APIResponse[*chat.Response]
	reqBody := map[string]string{"message": message}
	if err := c.doJSON(ctx, consts.MethodPost, endpointChatMessage, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("chat turn failed: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("chat turn failed: empty response")
	}
	return resp.Data, nil
}

// CreateOrder places an order for the current cart contents.
func (c *APIClient) CreateOrder(ctx context.Context, shipping types.ShippingInfo) (*types.Order, error) {
	var resp types.APIResponse[*types.Order]
	reqBody := types.OrderRequest{Shipping: shipping}
	if err := c.doJSON(ctx, consts.MethodPost, endpointOrders, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	return resp.Data, nil
}
