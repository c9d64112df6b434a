package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

type OwnedByUser struct {
	UserID uuid.UUID
}

func (s OwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("uploaded_by = ?", s.UserID)
}

// VisibleToUser keeps documents the user may read: their own uploads plus
// public ones.
type VisibleToUser struct {
	UserID uuid.UUID
}

func (s VisibleToUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("uploaded_by = ? OR is_public = true", s.UserID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByDocumentType struct {
	Type string
}

func (s ByDocumentType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

type ByYear struct {
	Year int
}

func (s ByYear) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("year = ?", s.Year)
}

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}
