package model

// swagger:model Course
type Course struct {
	BaseModel
	Grade   string `gorm:"size:20;not null;index" json:"grade"`
	Subject string `gorm:"size:20;not null" json:"subject"`
	Term    string `gorm:"size:20;not null" json:"term"`
	Units   []Unit `gorm:"foreignKey:CourseID" json:"units,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// DisplayName 课程展示名，如 "语文上册"
func (c Course) DisplayName() string {
	return c.Subject + c.Term
}

// swagger:model Unit
type Unit struct {
	BaseModel
	CourseID uint    `gorm:"index;not null" json:"courseId"`
	Name     string  `gorm:"size:50;not null" json:"name"`
	Order    int     `gorm:"column:sort_order;not null" json:"order"`
	Levels   []Level `gorm:"foreignKey:UnitID" json:"levels,omitempty"`
}

func (Unit) TableName() string {
	return "units"
}

// swagger:model Level
type Level struct {
	BaseModel
	UnitID     uint   `gorm:"index;not null" json:"unitId"`
	Title      string `gorm:"size:100;not null" json:"title"`
	ContentRef string `gorm:"size:100" json:"contentRef"`
	IsBoss     bool   `gorm:"default:false" json:"isBoss"`
	IsMidterm  bool   `gorm:"default:false" json:"isMidterm"`
	IsFinal    bool   `gorm:"default:false" json:"isFinal"`
	Order      int    `gorm:"column:sort_order;not null" json:"order"`
	CoverURL   string `gorm:"size:255" json:"coverUrl"`
}

func (Level) TableName() string {
	return "levels"
}
