package database

import "storefront/internal/config"

func configFixture() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     "db.local",
		Port:     "5433",
		User:     "shop",
		Password: "pw",
		Database: "storefront",
		Schema:   "public",
	}
}
