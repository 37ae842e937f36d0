package model

import (
	"time"

	"Scrubline/core/scrub"
)

// Track is the catalog entry for a scrubbable track.
type Track struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Title     string    `json:"title" gorm:"size:255"`
	Duration  float64   `json:"duration" gorm:"not null;default:0"` // seconds
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName pins the table name.
func (Track) TableName() string {
	return "tracks"
}

// TrackMarker is one section marker of a track. Seq preserves the order in
// which markers sharing a time were saved.
type TrackMarker struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	TrackID     string  `json:"trackId" gorm:"size:64;index;not null"`
	Seq         int     `json:"seq" gorm:"not null"`
	Time        float64 `json:"time" gorm:"not null"`
	Title       string  `json:"title,omitempty" gorm:"size:255"`
	Description string  `json:"description,omitempty" gorm:"type:text"`
}

func (TrackMarker) TableName() string {
	return "track_markers"
}

// SectionMarker converts the row to the engine's marker type.
func (m TrackMarker) SectionMarker() scrub.SectionMarker {
	return scrub.SectionMarker{Time: m.Time, Title: m.Title, Description: m.Description}
}

// NewTrackMarkers builds rows for markers in their given order.
func NewTrackMarkers(trackID string, markers []scrub.SectionMarker) []TrackMarker {
	rows := make([]TrackMarker, 0, len(markers))
	for i, m := range markers {
		rows = append(rows, TrackMarker{
			TrackID:     trackID,
			Seq:         i,
			Time:        m.Time,
			Title:       m.Title,
			Description: m.Description,
		})
	}
	return rows
}
