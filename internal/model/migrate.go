package model

import "gorm.io/gorm"

// partialIndexes are not expressible as gorm tags.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_engagements_pending_pair
		ON engagements (requester_id, specialist_id)
		WHERE status = 'PENDING'`,
}

// AutoMigrate creates or updates every table, then the partial indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return err
	}
	err := db.AutoMigrate(
		&User{},
		&SpecialistProfile{},
		&RequesterProfile{},
		&Engagement{},
		&Channel{},
		&Message{},
		&Visit{},
		&Report{},
		&Feedback{},
	)
	if err != nil {
		return err
	}
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
