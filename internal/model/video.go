package model

type Video struct {
	BaseModel
	URL         string `gorm:"size:2000;not null;uniqueIndex" json:"url"`
	SourceID    string `gorm:"size:100;not null;uniqueIndex" json:"source_id"`
	Title       string `gorm:"size:500;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
}

func (Video) TableName() string {
	return "videos"
}
