package model

import (
	"gorm.io/gorm"
)

// ClientDocument is metadata for a document processed on behalf of a client.
// Rows are written by the queue consumer when the document pipeline reports
// a finished upload; the file itself lives in object storage.
type ClientDocument struct {
	gorm.Model
	ClientID     uint   `gorm:"column:client_id;not null;index"`
	DocumentID   string `gorm:"column:document_id;not null;uniqueIndex"`
	DocumentType string `gorm:"column:document_type"`
	Filename     string `gorm:"column:filename"`
	StorageURL   string `gorm:"column:storage_url"`
}
