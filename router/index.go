package router

import (
	"optic_manager/handler"
	"optic_manager/middleware"
	"optic_manager/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)
	auth.Post("/logout", handler.Logout)

	account := v1.Group("/account", logger.New())
	account.Get("/me", middleware.Protected(), handler.GetCurrentAccount)
	account.Post("/", middleware.Protected(), handler.CreateAccount)
	account.Post("/change-password", middleware.Protected(), handler.AdminChangePassword)

	branch := v1.Group("/branch", logger.New())
	branch.Get("/", middleware.Protected(), handler.GetBranches)
	branch.Get("/:branchId", middleware.Protected(), validate.GetById("branchId"), handler.GetBranchById)
	branch.Post("/", middleware.Protected(), validate.CreateBranch(), handler.CreateBranch)
	branch.Put("/:branchId", middleware.Protected(), validate.EditBranch("branchId"), handler.EditBranch)

	customer := v1.Group("/customer", logger.New())
	customer.Post("/filter", middleware.Protected(), validate.FilterCustomer(), handler.GetCustomers)
	customer.Get("/:customerId", middleware.Protected(), validate.GetById("customerId"), handler.GetCustomerById)
	customer.Post("/", middleware.Protected(), validate.CreateCustomer(), handler.CreateCustomer)
	customer.Put("/:customerId", middleware.Protected(), validate.EditCustomer("customerId"), handler.EditCustomer)

	product := v1.Group("/product", logger.New())
	product.Post("/external-lens", middleware.Protected(), handler.CreateExternalLens)
	product.Post("/:itemType/filter", middleware.Protected(), validate.FilterProduct(), handler.GetProducts)
	product.Get("/:itemType/:productId", middleware.Protected(), validate.GetById("productId"), handler.GetProductById)
	product.Post("/:itemType", middleware.Protected(), validate.CreateProduct(), handler.CreateProduct)

	stock := v1.Group("/stock", logger.New())
	stock.Post("/filter", middleware.Protected(), validate.FilterStock(), handler.GetStock)
	stock.Get("/movements", middleware.Protected(), handler.GetStockMovements)
	stock.Post("/adjust", middleware.Protected(), validate.AdjustStock(), handler.AdjustStock)
	stock.Post("/transfer", middleware.Protected(), validate.TransferStock(), handler.TransferStock)

	order := v1.Group("/order", logger.New())
	order.Post("/filter", middleware.Protected(), validate.FilterOrder(), handler.GetOrders)
	order.Get("/:orderId", middleware.Protected(), validate.GetById("orderId"), handler.GetOrderById)
	order.Get("/:orderId/history", middleware.Protected(), validate.GetById("orderId"), handler.GetOrderHistory)
	order.Get("/:orderId/refund-expenses", middleware.Protected(), validate.GetById("orderId"), handler.GetRefundExpenses)
	order.Post("/", middleware.Protected(), validate.CreateOrder(), handler.CreateOrder)
	order.Put("/:orderId", middleware.Protected(), validate.UpdateOrder("orderId"), handler.UpdateOrder)
	order.Post("/:orderId/payments", middleware.Protected(), validate.RecordPayments("orderId"), handler.RecordPayments)
	order.Post("/:orderId/refund", middleware.Protected(), validate.RefundOrder("orderId"), handler.RefundOrder)
	order.Delete("/:orderId", middleware.Protected(), validate.GetById("orderId"), handler.DeleteOrder)

	refraction := v1.Group("/refraction", logger.New())
	refraction.Post("/filter", middleware.Protected(), validate.FilterRefraction(), handler.GetRefractions)
	refraction.Get("/:refractionId", middleware.Protected(), validate.GetById("refractionId"), handler.GetRefractionById)
	refraction.Post("/", middleware.Protected(), validate.CreateRefraction(), handler.CreateRefraction)

	mnt := v1.Group("/mnt", logger.New())
	mnt.Post("/filter", middleware.Protected(), validate.FilterMnt(), handler.GetMnts)
	mnt.Post("/", middleware.Protected(), validate.CreateMnt(), handler.CreateMnt)
	mnt.Patch("/:mntId/status", middleware.Protected(), validate.GetById("mntId"), handler.UpdateMntStatus)

	ws := v1.Group("/ws")
	ws.Get("/stock/:branchId", websocket.New(handler.StockBoardConnection))
}
