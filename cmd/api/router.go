package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/fashionsmith/fashionsmith-api/internal/auth"
	"github.com/fashionsmith/fashionsmith-api/internal/dashboard"
	"github.com/fashionsmith/fashionsmith-api/internal/httpx"
	"github.com/fashionsmith/fashionsmith-api/internal/measurement"
	"github.com/fashionsmith/fashionsmith-api/internal/notification"
	"github.com/fashionsmith/fashionsmith-api/internal/order"
	"github.com/fashionsmith/fashionsmith-api/internal/payment"
	"github.com/fashionsmith/fashionsmith-api/internal/product"
	"github.com/fashionsmith/fashionsmith-api/internal/stream"
	"github.com/fashionsmith/fashionsmith-api/internal/user"
)

type deps struct {
	users         *user.Service
	userRepo      user.Repository
	measurements  measurement.Repository
	products      product.Repository
	orders        order.Repository
	payments      *payment.Service
	notifications notification.Repository
	dash          dashboard.Repository
	tokens        *auth.Tokens
	events        stream.Producer
	frontendURL   string
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/signup", signupHandler(d.users))
		users.POST("/login", loginHandler(d.users))
		users.POST("/refresh", refreshHandler(d.users))
		users.POST("/logout", logoutHandler(d.users))

		authed := users.Group("", httpx.Auth(d.tokens))
		authed.GET("/profile", getProfileHandler(d.userRepo))
		authed.PATCH("/profile", updateProfileHandler(d.users))
		authed.DELETE("/profile", deleteProfileHandler(d.userRepo))

		authed.GET("/getMeasurement", getMeasurementHandler(d.measurements))
		authed.POST("/addMeasurement", addMeasurementHandler(d.measurements))
		authed.PATCH("/updateMeasurement", updateMeasurementHandler(d.measurements))
		authed.DELETE("/removeMeasurement", removeMeasurementHandler(d.measurements))
	}

	products := api.Group("/products")
	{
		products.GET("", listProductsHandler(d.products))
		products.GET("/:id", getProductHandler(d.products))

		admin := products.Group("", httpx.Auth(d.tokens), httpx.RequireAdmin())
		admin.POST("", createProductHandler(d.products))
		admin.PUT("/:id", updateProductHandler(d.products))
		admin.DELETE("/:id", deleteProductHandler(d.products))
	}

	orders := api.Group("/orders", httpx.Auth(d.tokens))
	{
		orders.POST("", createOrderHandler(d.orders, d.products, d.events))
		orders.GET("", listOrdersHandler(d.orders))
		orders.PUT("", httpx.RequireAdmin(), updateOrderStatusHandler(d.orders, d.events))
		orders.DELETE("/:id", cancelOrderHandler(d.orders, d.events))
	}

	payments := api.Group("/payments")
	{
		payments.POST("/webhook", paymentWebhookHandler(d.payments))
		payments.GET("/callback", paymentCallbackHandler(d.payments, d.frontendURL))

		authed := payments.Group("", httpx.Auth(d.tokens))
		authed.POST("/initialize", initializePaymentHandler(d.payments))
		authed.GET("/verify/:reference", verifyPaymentHandler(d.payments))
	}

	notifications := api.Group("/notifications", httpx.Auth(d.tokens))
	{
		notifications.GET("", listNotificationsHandler(d.notifications))
		notifications.PATCH("/read-all", markAllReadHandler(d.notifications))
		notifications.PATCH("/:id/read", markNotificationReadHandler(d.notifications))
		notifications.DELETE("/:id", deleteNotificationHandler(d.notifications))
	}

	dash := api.Group("/dashboard", httpx.Auth(d.tokens))
	{
		dash.GET("", dashboardHandler(d.dash))
		dash.GET("/orders", dashboardOrdersHandler(d.dash))
	}

	admin := api.Group("/admin", httpx.Auth(d.tokens), httpx.RequireAdmin())
	{
		admin.GET("/users", adminUsersHandler(d.userRepo))
		admin.GET("/orders", adminOrdersHandler(d.dash))
	}

	return r
}
