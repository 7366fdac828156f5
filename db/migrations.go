package db

import (
	"errors"

	"pathfinder/guide-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type dataMigration struct {
	name string
	run  func(tx *gorm.DB) error
}

var dataMigrations = []dataMigration{
	{name: "0001_backfill_profiles", run: backfillProfiles},
}

// apply runs m inside a transaction together with the row that marks it
// as done.
func apply(db *gorm.DB, m dataMigration) error {
	var applied model.Migration
	err := db.Where("name = ?", m.name).First(&applied).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := m.run(tx); err != nil {
			return err
		}

		zap.L().Info("Applied data migration", zap.String("name", m.name))
		return tx.Create(&model.Migration{Name: m.name}).Error
	})
}

// backfillProfiles gives every user without a profile an empty one.
// Databases written by older versions could hold such users because the
// user and its profile used to be committed separately.
func backfillProfiles(tx *gorm.DB) error {
	var orphans []uint

	err := tx.
		Model(&model.User{}).
		Where("id NOT IN (?)", tx.Model(&model.Profile{}).Select("user_id")).
		Pluck("id", &orphans).
		Error
	if err != nil {
		return err
	}

	if len(orphans) == 0 {
		return nil
	}

	profiles := make([]model.Profile, len(orphans))
	for i, id := range orphans {
		profiles[i] = model.Profile{UserID: id}
	}

	zap.L().Info("Creating missing profiles", zap.Int("count", len(profiles)))
	return tx.Create(&profiles).Error
}
