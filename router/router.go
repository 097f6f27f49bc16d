package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/controllers"
	"github.com/dinesync/resto-backend/middlewares"
	"github.com/dinesync/resto-backend/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	customerCtrl := controllers.NewCustomerController(db)
	employeeCtrl := controllers.NewEmployeeController(db)
	ownerCtrl := controllers.NewOwnerController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	menuCtrl := controllers.NewMenuController(db)
	menuItemCtrl := controllers.NewMenuItemController(db)
	orderCtrl := controllers.NewOrderController(db)
	orderItemCtrl := controllers.NewOrderItemController(db)
	paymentCtrl := controllers.NewPaymentController(db, services.GetStripeService())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Credential endpoints carry the strict limiter.
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Gateway callback authenticates by signature, not by token.
	r.POST("/payments/webhook", paymentCtrl.HandleWebhook)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(db))
	{
		api.GET("/profile", userCtrl.GetProfile)
		api.POST("/logout", userCtrl.Logout)

		api.GET("/customers", customerCtrl.List)
		api.POST("/customers", customerCtrl.Create)
		api.GET("/customers/:user_id", customerCtrl.Get)
		api.PATCH("/customers/:user_id", customerCtrl.Update)
		api.DELETE("/customers/:user_id", customerCtrl.Delete)

		api.GET("/employees", employeeCtrl.List)
		api.POST("/employees", employeeCtrl.Create)
		api.GET("/employees/:user_id", employeeCtrl.Get)
		api.PATCH("/employees/:user_id", employeeCtrl.Update)
		api.DELETE("/employees/:user_id", employeeCtrl.Delete)

		api.GET("/owners", ownerCtrl.List)
		api.POST("/owners", ownerCtrl.Create)
		api.GET("/owners/:user_id", ownerCtrl.Get)
		api.PATCH("/owners/:user_id", ownerCtrl.Update)
		api.DELETE("/owners/:user_id", ownerCtrl.Delete)

		api.GET("/restaurants", restaurantCtrl.List)
		api.POST("/restaurants", restaurantCtrl.Create)
		api.GET("/restaurants/:restaurant_id", restaurantCtrl.Get)
		api.PATCH("/restaurants/:restaurant_id", restaurantCtrl.Update)
		api.DELETE("/restaurants/:restaurant_id", restaurantCtrl.Delete)

		api.GET("/menus", menuCtrl.List)
		api.POST("/menus", menuCtrl.Create)
		api.GET("/menus/:menu_id", menuCtrl.Get)
		api.PATCH("/menus/:menu_id", menuCtrl.Update)
		api.DELETE("/menus/:menu_id", menuCtrl.Delete)

		api.GET("/menu-items", menuItemCtrl.List)
		api.POST("/menu-items", menuItemCtrl.Create)
		api.GET("/menu-items/:item_id", menuItemCtrl.Get)
		api.PATCH("/menu-items/:item_id", menuItemCtrl.Update)
		api.DELETE("/menu-items/:item_id", menuItemCtrl.Delete)

		api.GET("/orders", orderCtrl.List)
		api.POST("/orders", orderCtrl.Create)
		api.GET("/orders/:order_id", orderCtrl.Get)
		api.PATCH("/orders/:order_id", orderCtrl.Update)
		api.DELETE("/orders/:order_id", orderCtrl.Delete)

		api.GET("/order-items", orderItemCtrl.List)
		api.GET("/order-items/:item_id", orderItemCtrl.Get)
		api.PATCH("/order-items/:item_id", orderItemCtrl.Update)
		api.DELETE("/order-items/:item_id", orderItemCtrl.Delete)

		payments := api.Group("/payments")
		payments.Use(middlewares.NewStrictRateLimiter())
		{
			payments.GET("", paymentCtrl.List)
			payments.POST("/intent", paymentCtrl.CreateIntent)
		}
	}

	return r
}
