package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrPathNotFound    = errors.New("learning path not found")
	ErrTopicNotInPath  = errors.New("topic not found in learning path")
	ErrPersistence     = errors.New("failed to save user profile")
)

// TopicsByPath maps a learning path ID to its topic list. For LearningPaths
// the list is the curriculum (ordered, duplicates kept verbatim); for
// CompletedTopicsByPath it is the duplicate-free completion history in
// insertion order.
type TopicsByPath = map[string][]string

type Profile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"-"`

	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Bio        string `json:"bio"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
	Linkedin   string `json:"linkedin"`
	Github     string `json:"github"`

	LearningPaths         datatypes.JSONType[TopicsByPath] `gorm:"type:jsonb" json:"learningPaths"`
	CompletedTopicsByPath datatypes.JSONType[TopicsByPath] `gorm:"type:jsonb" json:"completedTopicsByPath"`
	CompletedPaths        datatypes.JSONSlice[string]      `gorm:"type:jsonb" json:"completedLearningPaths"`

	Badges []Badge `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"badges"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Profile) TableName() string {
	return "user_profiles"
}

// Paths returns the learning-path map, never nil.
func (p *Profile) Paths() TopicsByPath {
	if m := p.LearningPaths.Data(); m != nil {
		return m
	}
	return TopicsByPath{}
}

// CompletedTopics returns the completed-topics map, never nil.
func (p *Profile) CompletedTopics() TopicsByPath {
	if m := p.CompletedTopicsByPath.Data(); m != nil {
		return m
	}
	return TopicsByPath{}
}

func (p *Profile) HasCompletedPath(pathID string) bool {
	for _, id := range p.CompletedPaths {
		if id == pathID {
			return true
		}
	}
	return false
}
