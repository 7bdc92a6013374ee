package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AbuzarGhazanfarKhan/storefront/internal/models"
)

// NewTestDB opens a private in-memory sqlite database and migrates the
// full schema. cache=shared keeps gorm's pooled connections on the
// same database; the test name keeps databases apart between tests.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type PublishedEvent struct {
	Topic string
	Key   string
	Event any
}

// RecordingPublisher captures events instead of writing to Kafka.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

func (p *RecordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

func (p *RecordingPublisher) ByTopic(topic string) []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []PublishedEvent
	for _, e := range p.Events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

func SeedCollection(t *testing.T, db *gorm.DB, title string) models.Collection {
	t.Helper()
	collection := models.Collection{Title: title}
	if err := db.Create(&collection).Error; err != nil {
		t.Fatalf("failed to seed collection: %v", err)
	}
	return collection
}

func SeedProduct(t *testing.T, db *gorm.DB, collectionID uint, title string, price string) models.Product {
	t.Helper()
	product := models.Product{
		Title:        title,
		Slug:         strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Description:  title + " description",
		UnitPrice:    decimal.RequireFromString(price),
		Inventory:    100,
		CollectionID: collectionID,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}
