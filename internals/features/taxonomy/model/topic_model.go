package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type TopicModel struct {
	TopicID                  string         `gorm:"column:topic_id;primaryKey;type:varchar(64)" json:"topic_id"`
	TopicSubjectID           string         `gorm:"column:topic_subject_id;type:varchar(64);not null;index;uniqueIndex:idx_topic_subject_slug,priority:1" json:"topic_subject_id"`
	TopicName                string         `gorm:"column:topic_name;type:text;not null" json:"topic_name"`
	TopicSlug                string         `gorm:"column:topic_slug;type:varchar(160);not null;uniqueIndex:idx_topic_subject_slug,priority:2" json:"topic_slug"`
	TopicDescription         *string        `gorm:"column:topic_description;type:text" json:"topic_description,omitempty"`
	TopicDifficultyWeight    float64        `gorm:"column:topic_difficulty_weight;not null" json:"topic_difficulty_weight"`
	TopicBloomLevel          *string        `gorm:"column:topic_bloom_level;type:varchar(40)" json:"topic_bloom_level,omitempty"`
	TopicRelatedTopicIDs     pq.StringArray `gorm:"column:topic_related_topic_ids;type:text[]" json:"topic_related_topic_ids"`
	TopicPrerequisiteTopicIDs pq.StringArray `gorm:"column:topic_prerequisite_topic_ids;type:text[]" json:"topic_prerequisite_topic_ids"`
	TopicTags                pq.StringArray `gorm:"column:topic_tags;type:text[]" json:"topic_tags"`
	TopicMetadata            datatypes.JSON `gorm:"column:topic_metadata;type:jsonb" json:"topic_metadata,omitempty"`
	TopicIsActive            bool           `gorm:"column:topic_is_active;not null;default:true" json:"topic_is_active"`
	TopicCreatedAt           time.Time      `gorm:"column:topic_created_at;not null" json:"topic_created_at"`
	TopicUpdatedAt           time.Time      `gorm:"column:topic_updated_at;not null" json:"topic_updated_at"`
}

func (TopicModel) TableName() string {
	return "topics"
}
