package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/constants"
	"github.com/clientbridge/crm/internal/model"
)

// Migrate runs auto-migration for the tables a service owns. Each service
// migrates only its own schema.
func Migrate(db *gorm.DB, serviceName string) error {
	var models []interface{}

	switch serviceName {
	case constants.ServiceAuth:
		models = []interface{}{
			&model.User{},
			&model.SocialProviderLink{},
		}
	case constants.ServiceClient:
		models = []interface{}{
			&model.Client{},
			&model.ClientContact{},
			&model.ClientInteraction{},
			&model.ClientDocument{},
		}
	case constants.ServiceJob:
		models = []interface{}{
			&model.Job{},
		}
	default:
		return fmt.Errorf("unknown service %q", serviceName)
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	if serviceName == constants.ServiceClient {
		return CreateContactIndexes(db)
	}

	return nil
}
