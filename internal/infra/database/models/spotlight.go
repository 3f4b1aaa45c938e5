package models

import (
	"time"
)

// SpotlightRecord is append-only: rows are inserted by rollover or manual
// override and never updated, so CDate is create-only and doubles as the
// recency ordering for history and active lookups.
type SpotlightRecord struct {
	ID                string    `json:"id" gorm:"primaryKey;type:text"`
	Category          string    `json:"category" gorm:"type:text;not null;index:idx_spotlight_category_cdate,priority:1"`
	ItemID            string    `json:"itemId" gorm:"type:text;not null"`
	StartDate         time.Time `json:"startDate" gorm:"type:timestamp with time zone;not null"`
	EndDate           time.Time `json:"endDate" gorm:"type:timestamp with time zone;not null;index"`
	IsManualSelection bool      `json:"isManualSelection" gorm:"type:boolean;not null;default:false"`
	CDate             time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp();index:idx_spotlight_category_cdate,priority:2,sort:desc"`
}
