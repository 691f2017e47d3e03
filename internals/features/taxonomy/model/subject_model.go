package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type SubjectModel struct {
	SubjectID          string         `gorm:"column:subject_id;primaryKey;type:varchar(64)" json:"subject_id"`
	SubjectName        string         `gorm:"column:subject_name;type:text;not null" json:"subject_name"`
	SubjectSlug        string         `gorm:"column:subject_slug;type:varchar(160);not null;uniqueIndex" json:"subject_slug"`
	SubjectDescription *string        `gorm:"column:subject_description;type:text" json:"subject_description,omitempty"`
	SubjectTags        pq.StringArray `gorm:"column:subject_tags;type:text[]" json:"subject_tags"`
	SubjectMetadata    datatypes.JSON `gorm:"column:subject_metadata;type:jsonb" json:"subject_metadata,omitempty"`
	SubjectIsActive    bool           `gorm:"column:subject_is_active;not null;default:true" json:"subject_is_active"`
	SubjectCreatedAt   time.Time      `gorm:"column:subject_created_at;not null" json:"subject_created_at"`
	SubjectUpdatedAt   time.Time      `gorm:"column:subject_updated_at;not null" json:"subject_updated_at"`
}

func (SubjectModel) TableName() string {
	return "subjects"
}
