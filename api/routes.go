package api

// Route path constants
// All remote endpoints are defined here to ensure consistency and prevent typos
const (
	// Public routes
	RouteBooks  = "/books"
	RouteLogin  = "/login"
	RouteSignup = "/signup"

	// Admin routes (bearer token)
	RouteAdminBook = "/admin/book"

	// Cart routes (bearer token)
	RouteCart = "/api/cart"
)
