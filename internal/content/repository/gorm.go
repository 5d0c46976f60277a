package repository

import (
	"context"
	"time"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentEntry is one scalar field row.
type ContentEntry struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (ContentEntry) TableName() string { return "content_entries" }

// ServiceEntry is one row of the services list; Position is display order.
type ServiceEntry struct {
	Position    int    `gorm:"primaryKey;autoIncrement:false"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`
	UpdatedAt   time.Time
}

func (ServiceEntry) TableName() string { return "service_entries" }

// GormModels lists the tables AutoMigrate must create for GormRepo.
func GormModels() []interface{} {
	return []interface{}{&ContentEntry{}, &ServiceEntry{}}
}

// GormRepo stores the content document in relational tables through gorm.
type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (g *GormRepo) Get(ctx context.Context) (*content.Document, error) {
	var entries []ContentEntry
	if err := g.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	doc := &content.Document{}
	for _, e := range entries {
		// rows for keys no longer in the model are ignored
		_ = doc.SetField(e.Key, e.Value)
	}

	var svcs []ServiceEntry
	if err := g.db.WithContext(ctx).Order("position asc").Find(&svcs).Error; err != nil {
		return nil, err
	}
	doc.Services = make([]content.Service, 0, len(svcs))
	for _, s := range svcs {
		doc.Services = append(doc.Services, content.Service{Name: s.Name, Description: s.Description})
	}
	return doc, nil
}

func (g *GormRepo) SetField(ctx context.Context, key, value string) error {
	if !content.IsFieldKey(key) {
		return &content.UnknownKeyError{Key: key}
	}
	res := g.db.WithContext(ctx).Model(&ContentEntry{}).Where("key = ?", key).
		Updates(map[string]interface{}{"value": value, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormRepo) ReplaceServices(ctx context.Context, services []content.Service) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceServices(tx, services)
	})
}

func (g *GormRepo) Replace(ctx context.Context, doc *content.Document) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertFields(tx, doc); err != nil {
			return err
		}
		return replaceServices(tx, doc.Services)
	})
}

func (g *GormRepo) SeedIfEmpty(ctx context.Context, doc *content.Document) (bool, error) {
	seeded := false
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&ContentEntry{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := upsertFields(tx, doc); err != nil {
			return err
		}
		seeded = true
		return replaceServices(tx, doc.Services)
	})
	return seeded, err
}

func upsertFields(tx *gorm.DB, doc *content.Document) error {
	now := time.Now().UTC()
	rows := make([]ContentEntry, 0, len(content.FieldKeys))
	for _, k := range content.FieldKeys {
		v, _ := doc.Field(k)
		rows = append(rows, ContentEntry{Key: k, Value: v, UpdatedAt: now})
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
}

func replaceServices(tx *gorm.DB, services []content.Service) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ServiceEntry{}).Error; err != nil {
		return err
	}
	if len(services) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]ServiceEntry, 0, len(services))
	for i, s := range services {
		rows = append(rows, ServiceEntry{Position: i, Name: s.Name, Description: s.Description, UpdatedAt: now})
	}
	return tx.Create(&rows).Error
}
