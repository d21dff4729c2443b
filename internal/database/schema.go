package database

import (
	"context"
	"database/sql"
)

// Schema is created on first successful connect. Statements are
// idempotent so reconnects are harmless.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role ENUM('restaurant','ngo') NOT NULL,
		phone VARCHAR(64) NOT NULL,
		address VARCHAR(255) NOT NULL,
		city VARCHAR(128) NOT NULL,
		zip_code VARCHAR(32) NOT NULL,
		restaurant_type VARCHAR(128) NULL,
		operating_hours VARCHAR(128) NULL,
		ngo_type VARCHAR(128) NULL,
		service_area VARCHAR(255) NULL,
		beneficiaries_served INT UNSIGNED NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_accounts_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS donations (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		food_type VARCHAR(128) NOT NULL,
		food_description TEXT NOT NULL,
		quantity DECIMAL(10,2) NOT NULL,
		quantity_unit VARCHAR(32) NOT NULL,
		estimated_meals INT UNSIGNED NULL,
		pickup_date VARCHAR(32) NOT NULL,
		pickup_window VARCHAR(64) NOT NULL,
		allergen_info TEXT NULL,
		dietary_info TEXT NULL,
		additional_info TEXT NULL,
		status ENUM('available','claimed','completed') NOT NULL DEFAULT 'available',
		claimed_by BIGINT UNSIGNED NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_donations_status (status),
		KEY idx_donations_restaurant (restaurant_id),
		CONSTRAINT fk_donations_restaurant FOREIGN KEY (restaurant_id) REFERENCES accounts (id),
		CONSTRAINT fk_donations_claimed_by FOREIGN KEY (claimed_by) REFERENCES accounts (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS contact_messages (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		subject VARCHAR(255) NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
