package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"bakery-backoffice/internal/api"
	"bakery-backoffice/internal/config"
	"bakery-backoffice/internal/consumer"
	"bakery-backoffice/internal/repository"
	"bakery-backoffice/internal/service"
	"bakery-backoffice/internal/settings"
	"bakery-backoffice/internal/weborders"
	"bakery-backoffice/migrations"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func main() {
	db, err := connectDBEnv(os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"))
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateOrders(3, db); err != nil {
		log.Fatalf("Failed to migrate customer_orders table: %v", err)
	}
	if err := migrations.AutoMigrateLineItems(3, db); err != nil {
		log.Fatalf("Failed to migrate order_line_items table: %v", err)
	}
	if err := migrations.AutoMigrateProducts(3, db); err != nil {
		log.Fatalf("Failed to migrate bakery_products_lookup table: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
	})

	kafkaWriter := config.NewKafkaWriter(config.OrderEventsTopic)

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)

	orderService := service.NewOrderService(orderRepo, kafkaWriter, rdb)
	catalogService := service.NewCatalogService(productRepo)
	reportService := service.NewReportService(orderRepo, rdb)
	settingsStore := settings.NewStore(rdb)

	go consumer.NewConsumer(rdb).StartKafkaConsumer()
	go weborders.NewSyncService(orderRepo, os.Getenv("SHOPIFY_SHOP_URL"), os.Getenv("SHOPIFY_ACCESS_TOKEN"), kafkaWriter).Start()

	handler := api.NewHandler(orderService, catalogService, reportService, settingsStore)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     40,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	handler.Register(e)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "bakery-backoffice",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	e.Logger.Fatal(e.Start(addr))
}
