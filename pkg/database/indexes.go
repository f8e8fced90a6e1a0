package database

import (
	"gorm.io/gorm"
)

// CreateContactIndexes creates indexes AutoMigrate cannot express. The
// partial unique index is the storage-level backstop for the rule that a
// client has at most one active primary contact; the repository enforces the
// same rule transactionally, so in normal operation this index never fires.
func CreateContactIndexes(db *gorm.DB) error {
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_client_contacts_one_primary
			ON client_contacts(client_id)
			WHERE is_primary_contact AND is_active AND deleted_at IS NULL;`,

		`CREATE INDEX IF NOT EXISTS idx_client_contacts_client_active
			ON client_contacts(client_id, is_active);`,

		`CREATE INDEX IF NOT EXISTS idx_client_interactions_client_date
			ON client_interactions(client_id, scheduled_date DESC);`,
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}
