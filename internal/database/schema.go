package database

import (
	"context"
	"fmt"
	"log/slog"

	"smartchecklist/internal/config"
	"smartchecklist/internal/middleware"
	"smartchecklist/internal/models"

	"gorm.io/gorm"
)

// SchemaStatus describes which managed tables exist.
type SchemaStatus struct {
	Environment   string
	Driver        string
	Ready         bool
	MissingTables []string
}

// TableCounts holds row counts of the managed tables.
type TableCounts struct {
	Users      int64 `json:"users"`
	Checklists int64 `json:"checklists"`
	Items      int64 `json:"items"`
}

// ApplySchema runs AutoMigrate outside production. Production schemas are
// only changed through the migrate command.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if cfg.IsProduction() {
		middleware.Logger.Info("Skipping AutoMigrate in production", slog.String("env", cfg.Env))
		return nil
	}
	return EnsureSchema(ctx, db)
}

// EnsureSchema creates or updates every managed table.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "Database migration completed")
	return nil
}

// InspectSchema reports whether every managed table is present.
func InspectSchema(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	status := &SchemaStatus{Environment: cfg.Env, Driver: db.Dialector.Name()}
	migrator := db.WithContext(ctx).Migrator()
	for _, model := range PersistentModels() {
		if migrator.HasTable(model) {
			continue
		}
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
		status.MissingTables = append(status.MissingTables, stmt.Schema.Table)
	}
	status.Ready = len(status.MissingTables) == 0
	return status, nil
}

// Stats counts rows in the managed tables.
func Stats(ctx context.Context, db *gorm.DB) (*TableCounts, error) {
	var counts TableCounts
	q := db.WithContext(ctx)
	if err := q.Model(&models.User{}).Count(&counts.Users).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if err := q.Model(&models.Checklist{}).Count(&counts.Checklists).Error; err != nil {
		return nil, fmt.Errorf("count checklists: %w", err)
	}
	if err := q.Model(&models.Item{}).Count(&counts.Items).Error; err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	return &counts, nil
}
