package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/CampusPrayer/controllers"
	"github.com/CampusPrayer/initializers"
	"github.com/CampusPrayer/middlewares"
	"github.com/CampusPrayer/services"
)

var rootCmd = &cobra.Command{
	Use:   "campus-prayer",
	Short: "Campus Prayer API server",
	Long: `Backend for the campus prayer tracker and prayer wall.

Running without a subcommand starts the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create any missing tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		initializers.LoadEnv()
		initializers.LoadConfig()
		initializers.ConnectDB()
		return initializers.Migrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve() error {
	initializers.LoadEnv()
	initializers.LoadConfig()
	initializers.ConnectDB()
	services.InitEmailService()
	services.InitPushNotificationService()

	if initializers.Cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	registerRoutes(router)

	log.Printf("Listening on :%s", initializers.Cfg.Port)
	return router.Run(":" + initializers.Cfg.Port)
}

func registerRoutes(router *gin.Engine) {
	router.GET("/ping", middlewares.RateLimitMiddleware("ping", 2, 2, middlewares.ClientIPKey), controllers.Ping)

	auth := router.Group("/api/auth")
	{
		auth.POST("/signup", middlewares.RateLimitMiddleware("signup", 2, 2, middlewares.ClientIPKey), controllers.Signup)
		auth.POST("/login", middlewares.RateLimitMiddleware("login", 2, 5, middlewares.ClientIPKey), controllers.Login)
		auth.POST("/logout", controllers.Logout)
		auth.GET("/me", controllers.Me)

		// OAuth: provider consent, provider return, then the one-time token exchange
		auth.GET("/oauth/callback", controllers.OAuthCallback)
		auth.GET("/oauth/:provider", middlewares.RateLimitMiddleware("oauth", 2, 5, middlewares.ClientIPKey), controllers.OAuthStart)
		auth.GET("/oauth/:provider/redirect", controllers.OAuthProviderRedirect)
	}

	api := router.Group("/api")
	api.Use(middlewares.CheckSession)
	api.Use(middlewares.RateLimitMiddleware("api", 10, 20, middlewares.AccountKey))
	{
		// daily checklist
		api.GET("/prayers/daily", controllers.GetDailyPrayer)
		api.POST("/prayers/daily", controllers.UpdateDailyPrayer)
		api.PUT("/prayers/daily", controllers.SetDailyPrayerItem)
		api.GET("/prayers/daily/count", controllers.GetCampusPrayerCount)
		api.GET("/prayers/streak", controllers.GetPrayerStreak)

		// prayer wall
		api.GET("/prayers/requests", controllers.GetPrayerRequests)
		api.POST("/prayers/requests", controllers.CreatePrayerRequest)
		api.GET("/prayers/requests/stats", controllers.GetPrayerStats)
		api.POST("/prayers/requests/:id/react", controllers.TogglePrayerReaction)

		api.POST("/users/push-token", controllers.RegisterPushToken)
	}
}
