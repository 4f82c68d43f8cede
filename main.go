package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Println("⚠️ user index warning:", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Println("⚠️ cart index warning:", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Println("⚠️ order index warning:", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: config.AppEnv.RedisAddr})
	cartService := cart.NewService(cart.NewMongoStore(db), cart.NewRedisCache(redisClient))
	engine := checkout.NewEngine(checkout.NewMongoStore(db))

	secret := config.AppEnv.JWTSecret

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(db))
	r.POST("/auth/login", handlers.Login(
		db,
		secret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.GET("/auth/me", middleware.UserAuth(secret), handlers.GetMe(db))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		secret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))

	user := r.Group("/user")
	user.Use(middleware.UserAuth(secret))
	{
		user.GET("/addresses", handlers.GetUserAddresses(db))
		user.POST("/addresses", handlers.CreateUserAddress(db))
		user.PUT("/addresses/:id", handlers.UpdateUserAddress(db))
		user.DELETE("/addresses/:id", handlers.DeleteUserAddress(db))
	}

	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.UserAuth(secret))
	{
		cartGroup.GET("", handlers.GetCart(cartService))
		cartGroup.POST("", handlers.AddToCart(cartService))
		cartGroup.PUT("/:productId", handlers.UpdateCartQuantity(cartService))
		cartGroup.DELETE("/:productId", handlers.RemoveFromCart(cartService))
		cartGroup.DELETE("", handlers.ClearCart(cartService))
		cartGroup.POST("/checkout", handlers.Checkout(db, engine, cartService))
	}

	employee := r.Group("")
	employee.Use(middleware.EmployeeAuth(secret))
	{
		employee.GET("/orders", handlers.GetOrders(db))
		employee.GET("/orders/:id", handlers.GetOrder(db))
		employee.GET("/orders/:id/:date", handlers.FilterOrdersByDate(db))
		employee.DELETE("/orders/:id", handlers.DeleteOrder(db))

		employee.POST("/products", handlers.CreateProduct(db))
		employee.PUT("/products/:id", handlers.UpdateProduct(db))
		employee.DELETE("/products/:id", handlers.DeleteProduct(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
