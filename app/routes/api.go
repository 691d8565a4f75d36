// Package routes mounts the HTTP surface onto the router. Handlers live
// in app/controllers; this file only decides paths, names and guards.
package routes

import (
	"github.com/eventnest/eventnest/app/controllers"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/middleware"
	"github.com/eventnest/eventnest/pkg/router"
)

// Controllers bundles every controller the API needs.
type Controllers struct {
	Auth          *controllers.AuthController
	Catalog       *controllers.CatalogController
	Cart          *controllers.CartController
	Orders        *controllers.OrderController
	Bookings      *controllers.BookingController
	Wishlist      *controllers.WishlistController
	Notifications *controllers.NotificationController
	Contact       *controllers.ContactController
	Chat          *controllers.ChatController
	Admin         *controllers.AdminController
}

// RegisterAPI mounts all routes.
func RegisterAPI(r *router.Router, c *Controllers) {
	api := r.Group("/api")

	// Public.
	api.Post("/auth/signup", "auth.signup", ctx.Wrap(c.Auth.Signup))
	api.Post("/auth/login", "auth.login", ctx.Wrap(c.Auth.Login))

	api.Get("/store/categories", "store.categories", ctx.Wrap(c.Catalog.StoreCategories))
	api.Get("/store/items", "store.items", ctx.Wrap(c.Catalog.StoreItems))
	api.Get("/store/items/{item}", "store.items.show", ctx.Wrap(c.Catalog.StoreItem))

	api.Get("/services", "services.index", ctx.Wrap(c.Catalog.ServiceCategories))
	api.Get("/services/{type}", "services.type", ctx.Wrap(c.Catalog.ServicesOfType))
	api.Get("/services/{type}/{id}", "services.show", ctx.Wrap(c.Catalog.Service))

	api.Post("/contact", "contact.submit", ctx.Wrap(c.Contact.Submit))

	// Authenticated.
	user := api.Group("", middleware.RequireAuth)

	user.Post("/auth/logout", "auth.logout", ctx.Wrap(c.Auth.Logout))
	user.Get("/profile", "profile.show", ctx.Wrap(c.Auth.Profile))
	user.Put("/profile", "profile.update", ctx.Wrap(c.Auth.UpdateProfile))

	user.Get("/cart", "cart.show", ctx.Wrap(c.Cart.Show))
	user.Get("/cart/count", "cart.count", ctx.Wrap(c.Cart.Count))
	user.Post("/cart/items", "cart.add", ctx.Wrap(c.Cart.Add))
	user.Put("/cart/items/{item}", "cart.update", ctx.Wrap(c.Cart.Update))
	user.Delete("/cart/items/{item}", "cart.remove", ctx.Wrap(c.Cart.Remove))

	user.Post("/orders", "orders.checkout", ctx.Wrap(c.Orders.Checkout))
	user.Get("/orders", "orders.index", ctx.Wrap(c.Orders.History))
	user.Get("/orders/{order}", "orders.show", ctx.Wrap(c.Orders.Show))
	user.Post("/orders/{order}/cancel", "orders.cancel", ctx.Wrap(c.Orders.Cancel))

	user.Post("/bookings", "bookings.create", ctx.Wrap(c.Bookings.Book))
	user.Get("/bookings", "bookings.index", ctx.Wrap(c.Bookings.History))
	user.Post("/bookings/{booking}/cancel", "bookings.cancel", ctx.Wrap(c.Bookings.Cancel))

	user.Get("/wishlist", "wishlist.show", ctx.Wrap(c.Wishlist.Show))
	user.Post("/wishlist/{item}", "wishlist.toggle", ctx.Wrap(c.Wishlist.Toggle))
	user.Delete("/wishlist/{item}", "wishlist.remove", ctx.Wrap(c.Wishlist.Remove))

	user.Get("/notifications", "notifications.index", ctx.Wrap(c.Notifications.List))
	user.Post("/notifications/read", "notifications.read_all", ctx.Wrap(c.Notifications.MarkRead))
	user.Post("/notifications/{id}/read", "notifications.read", ctx.Wrap(c.Notifications.MarkRead))
	user.Get("/notifications/stream", "notifications.stream", ctx.Wrap(c.Notifications.Stream))

	user.Get("/chat", "chat.my", ctx.Wrap(c.Chat.My))
	user.Get("/chat/unread", "chat.unread", ctx.Wrap(c.Chat.UnreadCount))
	user.Get("/chats/{chat}", "chat.show", ctx.Wrap(c.Chat.Show))
	user.Get("/chats/{chat}/presence", "chat.presence", ctx.Wrap(c.Chat.Presence))
	user.Post("/chats/{chat}/read", "chat.read", ctx.Wrap(c.Chat.MarkRead))

	// Staff.
	admin := api.Group("/admin", middleware.RequireStaff)

	admin.Post("/store/items", "admin.items.create", ctx.Wrap(c.Admin.CreateItem))
	admin.Put("/store/items/{item}", "admin.items.update", ctx.Wrap(c.Admin.UpdateItem))
	admin.Post("/store/items/{item}/image", "admin.items.image", ctx.Wrap(c.Admin.UploadImage))
	admin.Put("/store/items/{item}/stock", "admin.items.restock", ctx.Wrap(c.Admin.Restock))

	admin.Get("/orders", "admin.orders.index", ctx.Wrap(c.Admin.ListOrders))
	admin.Put("/orders/{order}/status", "admin.orders.status", ctx.Wrap(c.Admin.SetOrderStatus))

	admin.Get("/bookings", "admin.bookings.index", ctx.Wrap(c.Admin.ListBookings))
	admin.Put("/bookings/{booking}/status", "admin.bookings.status", ctx.Wrap(c.Admin.SetBookingStatus))

	admin.Get("/contacts", "admin.contacts.index", ctx.Wrap(c.Admin.ContactInbox))
	admin.Get("/chats", "admin.chats.index", ctx.Wrap(c.Chat.Inbox))

	// WebSocket. Mounted outside RequireAuth: the consumer authenticates
	// the handshake itself so rejections arrive as close codes.
	r.Get("/ws/chat/{chat}", "chat.socket", c.Chat.Socket)
}
