package migrations

import (
	"database/sql"
	"time"
)

func execWithRetry(db *sql.DB, query string, retries int) error {
	_, err := db.Exec(query)
	if err != nil {
		for i := 0; i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.Exec(query)
			if err == nil {
				break
			}
		}
	}
	return err
}

// AutoMigrateOrders creates the customer_orders table if it does not exist.
func AutoMigrateOrders(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS customer_orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id VARCHAR(20) NOT NULL UNIQUE,
			customer_first_name VARCHAR(100) NOT NULL,
			customer_last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL DEFAULT '',
			phone_number VARCHAR(50) NOT NULL DEFAULT '',
			order_date VARCHAR(10) NOT NULL DEFAULT '',
			due_pickup_date VARCHAR(10) NOT NULL DEFAULT '',
			due_pickup_time VARCHAR(8) NOT NULL DEFAULT '',
			special TEXT NOT NULL,
			status VARCHAR(20) NOT NULL,
			total DOUBLE NOT NULL DEFAULT 0,
			order_type VARCHAR(20) NOT NULL DEFAULT '',
			order_taker VARCHAR(50) NOT NULL DEFAULT '',
			web_order_id INT NOT NULL DEFAULT 0,
			fulfillment_status VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateLineItems creates the order_line_items table if it does not exist.
func AutoMigrateLineItems(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS order_line_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id VARCHAR(20) NOT NULL,
			line_item VARCHAR(4) NOT NULL,
			type VARCHAR(255) NOT NULL DEFAULT '',
			size VARCHAR(100) NOT NULL DEFAULT '',
			color VARCHAR(100) NOT NULL DEFAULT '',
			writing_notes TEXT NOT NULL,
			cake_qty INT NOT NULL DEFAULT 1,
			unit_price DOUBLE NOT NULL DEFAULT 0,
			category VARCHAR(100) NOT NULL DEFAULT '',
			product_description VARCHAR(255) NOT NULL DEFAULT '',
			FOREIGN KEY (order_id) REFERENCES customer_orders(order_id) ON DELETE CASCADE
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateProducts creates the catalog lookup table if it does not exist.
func AutoMigrateProducts(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS bakery_products_lookup (
			id INT AUTO_INCREMENT PRIMARY KEY,
			product_description VARCHAR(255) NOT NULL,
			sku VARCHAR(100) NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL DEFAULT '',
			price DOUBLE NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE
		);
	`
	return execWithRetry(db, query, retries)
}
