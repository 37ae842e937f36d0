package repository

import (
	"context"
	"errors"
	"fmt"

	"Scrubline/core/catalog"
	"Scrubline/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackRepository reads and writes track timelines. It satisfies
// catalog.Store.
type TrackRepository interface {
	Timeline(ctx context.Context, trackID string) (*catalog.Timeline, error)
	SaveTimeline(ctx context.Context, t *catalog.Timeline) error
	DeleteTrack(ctx context.Context, trackID string) error
}

// gormTrackRepository is the GORM implementation.
type gormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository creates a GORM-backed track repository.
func NewGormTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

// Timeline loads a track and its markers ordered by time, then save order.
func (r *gormTrackRepository) Timeline(ctx context.Context, trackID string) (*catalog.Timeline, error) {
	var track model.Track
	err := r.db.WithContext(ctx).Where("id = ?", trackID).First(&track).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NotFound(trackID)
		}
		return nil, fmt.Errorf("load track %s: %w", trackID, err)
	}

	var rows []model.TrackMarker
	err = r.db.WithContext(ctx).
		Where("track_id = ?", trackID).
		Order("time ASC").
		Order("seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load markers for %s: %w", trackID, err)
	}

	t := &catalog.Timeline{
		TrackID:  track.ID,
		Title:    track.Title,
		Duration: track.Duration,
	}
	for _, row := range rows {
		t.Markers = append(t.Markers, row.SectionMarker())
	}
	t.Normalize()
	return t, nil
}

// SaveTimeline upserts the track and replaces its markers in one transaction.
func (r *gormTrackRepository) SaveTimeline(ctx context.Context, t *catalog.Timeline) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Normalize()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		track := model.Track{ID: t.TrackID, Title: t.Title, Duration: t.Duration}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "duration", "updated_at"}),
		}).Create(&track).Error
		if err != nil {
			return fmt.Errorf("upsert track: %w", err)
		}

		if err := tx.Where("track_id = ?", t.TrackID).Delete(&model.TrackMarker{}).Error; err != nil {
			return fmt.Errorf("clear markers: %w", err)
		}
		rows := model.NewTrackMarkers(t.TrackID, t.Markers)
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert markers: %w", err)
		}
		return nil
	})
}

// DeleteTrack removes a track and its markers.
func (r *gormTrackRepository) DeleteTrack(ctx context.Context, trackID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("track_id = ?", trackID).Delete(&model.TrackMarker{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", trackID).Delete(&model.Track{}).Error
	})
}
