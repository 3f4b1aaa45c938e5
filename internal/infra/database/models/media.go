package models

import (
	"time"

	"gorm.io/gorm"
)

// MediaItem holds the columns shared by every archive category table.
// Providers rely on the id, title and cover_url column names being the
// same across categories.
type MediaItem struct {
	ID        string         `json:"id" gorm:"primaryKey;type:text"`
	Title     string         `json:"title" gorm:"type:text;not null" validate:"required"`
	CoverURL  string         `json:"coverUrl" gorm:"type:text"`
	Rating    int            `json:"rating"`
	Notes     string         `json:"notes" gorm:"type:text"`
	CDate     time.Time      `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate     time.Time      `json:"mdate" gorm:"autoUpdateTime;type:timestamp with time zone;not null;default:clock_timestamp()"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (m *MediaItem) PrimaryID() string  { return m.ID }
func (m *MediaItem) AssignID(id string) { m.ID = id }

type Book struct {
	MediaItem
	Author string `json:"author" gorm:"type:text"`
	Year   int    `json:"year"`
}

type Movie struct {
	MediaItem
	Director string `json:"director" gorm:"type:text"`
	Year     int    `json:"year"`
}

type Show struct {
	MediaItem
	Seasons int `json:"seasons"`
	Year    int `json:"year"`
}

type Album struct {
	MediaItem
	Artist string `json:"artist" gorm:"type:text"`
	Year   int    `json:"year"`
}

type Anime struct {
	MediaItem
	Studio string `json:"studio" gorm:"type:text"`
	Year   int    `json:"year"`
}

type Game struct {
	MediaItem
	Platform string `json:"platform" gorm:"type:text"`
	Year     int    `json:"year"`
}

// Campaign is a tabletop campaign. Title carries the campaign name.
type Campaign struct {
	MediaItem
	System  string `json:"system" gorm:"type:text"`
	Players int    `json:"players"`
}

// Quote stores the quote text in Title so it participates in the shared
// title/cover lookup like every other category.
type Quote struct {
	MediaItem
	SaidBy string `json:"saidBy" gorm:"type:text"`
	Source string `json:"source" gorm:"type:text"`
}

// Article is a blog post.
type Article struct {
	ID        string         `json:"id" gorm:"primaryKey;type:text"`
	Slug      string         `json:"slug" gorm:"type:text;index:article_slug,unique" validate:"required"`
	Title     string         `json:"title" gorm:"type:text;not null" validate:"required"`
	Body      string         `json:"body" gorm:"type:text"`
	Published bool           `json:"published" gorm:"type:boolean;not null;default:false"`
	CDate     time.Time      `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate     time.Time      `json:"mdate" gorm:"autoUpdateTime;type:timestamp with time zone;not null;default:clock_timestamp()"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (a *Article) PrimaryID() string  { return a.ID }
func (a *Article) AssignID(id string) { a.ID = id }
