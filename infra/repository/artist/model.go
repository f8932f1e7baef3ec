package artist

import "github.com/google/uuid"

// Artist is the row stored in the artists table. Only the columns the
// dashboards read are mapped.
type Artist struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     string    `gorm:"column:user_id;type:text;not null;uniqueIndex:artists_user_id_key"`
	ArtistName string    `gorm:"column:artist_name;type:text;not null"`
}

// TableName specifies the table name for the Artist model.
func (Artist) TableName() string {
	return "artists"
}
