package client

const (
	apiPrefix = "/api"

	// Authentication endpoints
	endpointRegister = apiPrefix + "/auth/register"
	endpointLogin    = apiPrefix + "/auth/login"

	// Catalog endpoints
	endpointProducts       = apiPrefix + "/products"        // GET
	endpointProductByID    = apiPrefix + "/products/%s"     // GET
	endpointProductsSearch = apiPrefix + "/products/search" // GET ?q=

	// Cart endpoints
	endpointCart       = apiPrefix + "/cart"           // GET
	endpointCartAdd    = apiPrefix + "/cart/add"       // POST
	endpointCartUpdate = apiPrefix + "/cart/update"    // PUT
	endpointCartRemove = apiPrefix + "/cart/remove/%s" // DELETE
	endpointCartClear  = apiPrefix + "/cart/clear"     // DELETE

	// Chat endpoint
	endpointChatMessage = apiPrefix + "/chat/message" // POST

	// Order endpoint
	endpointOrders = apiPrefix + "/orders" // POST
)
