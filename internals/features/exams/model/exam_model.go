package model

import (
	"time"

	"gorm.io/datatypes"
)

// ExamSyllabusItem maps one subject plus its covered topics.
type ExamSyllabusItem struct {
	SubjectID string   `json:"subject_id"`
	TopicIDs  []string `json:"topic_ids"`
	Notes     *string  `json:"notes,omitempty"`
}

type ExamModel struct {
	ExamID          string             `gorm:"column:exam_id;primaryKey;type:varchar(64)" json:"exam_id"`
	ExamCode        string             `gorm:"column:exam_code;type:varchar(80);not null;uniqueIndex" json:"exam_code"`
	ExamName        string             `gorm:"column:exam_name;type:text;not null" json:"exam_name"`
	ExamDescription *string            `gorm:"column:exam_description;type:text" json:"exam_description,omitempty"`
	ExamSyllabus    []ExamSyllabusItem `gorm:"column:exam_syllabus;type:jsonb;serializer:json" json:"exam_syllabus"`
	ExamVersion     *string            `gorm:"column:exam_version;type:varchar(40)" json:"exam_version,omitempty"`
	ExamIsActive    bool               `gorm:"column:exam_is_active;not null;default:true" json:"exam_is_active"`
	ExamMetadata    datatypes.JSON     `gorm:"column:exam_metadata;type:jsonb" json:"exam_metadata,omitempty"`
	ExamCreatedBy   *string            `gorm:"column:exam_created_by;type:varchar(120)" json:"exam_created_by,omitempty"`
	ExamCreatedAt   time.Time          `gorm:"column:exam_created_at;not null" json:"exam_created_at"`
	ExamUpdatedAt   time.Time          `gorm:"column:exam_updated_at;not null" json:"exam_updated_at"`
}

func (ExamModel) TableName() string {
	return "exams"
}
