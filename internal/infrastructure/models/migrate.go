package models

import "gorm.io/gorm"

// All lists every persisted model in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Batch{},
		&DistributorAction{},
		&ConsumerAction{},
		&Payment{},
		&ConsumerPayment{},
		&Review{},
	}
}

// AutoMigrate creates or updates the schema for every model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
