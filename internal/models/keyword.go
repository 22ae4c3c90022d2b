package models

// NsfwKeyword represents one entry in the moderation keyword table
type NsfwKeyword struct {
	ID      int    `gorm:"primaryKey;autoIncrement;column:id"`
	Keyword string `gorm:"type:varchar(128);not null;column:keyword"`
}

// TableName specifies the table name for NsfwKeyword
func (NsfwKeyword) TableName() string {
	return "nsfw_keywords"
}
