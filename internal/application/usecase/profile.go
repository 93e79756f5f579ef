package usecase

import (
	"context"
	"errors"
	"fmt"

	"eduway/internal/domain"
	"eduway/internal/infrastructure/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ProfileInput carries the editable profile fields. The learning-path maps are
// replaced only when non-empty; a partial update never erases existing
// learning state.
type ProfileInput struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Bio        string `json:"bio"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
	Linkedin   string `json:"linkedin"`
	Github     string `json:"github"`

	LearningPaths         domain.TopicsByPath `json:"learningPaths"`
	CompletedTopicsByPath domain.TopicsByPath `json:"completedTopicsByPath"`
}

type CompletionResult struct {
	Success        bool    `json:"success"`
	TopicCompleted string  `json:"topicCompleted"`
	Progress       float64 `json:"progress"`
	PathCompleted  bool    `json:"pathCompleted"`
	NewBadge       string  `json:"newBadge,omitempty"`
}

type ProgressSummary struct {
	TotalTopics        int     `json:"totalTopics"`
	CompletedTopics    int     `json:"completedTopics"`
	ProgressPercentage float64 `json:"progressPercentage"`
	IsCompleted        bool    `json:"isCompleted"`
}

type ProfileUseCase struct {
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	badgeRepo   *repository.BadgeRepository
	log         *zap.SugaredLogger
}

func NewProfileUseCase(
	ur *repository.UserRepository,
	pr *repository.ProfileRepository,
	br *repository.BadgeRepository,
	log *zap.SugaredLogger,
) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo:    ur,
		profileRepo: pr,
		badgeRepo:   br,
		log:         log.With("usecase", "profile"),
	}
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return uc.profileRepo.GetByUserID(ctx, user.ID)
}

// CreateOrUpdateProfile creates the profile lazily on first update. The text
// fields are overwritten unconditionally; the learning-path maps only when the
// incoming payload actually carries paths.
func (uc *ProfileUseCase) CreateOrUpdateProfile(ctx context.Context, username string, input ProfileInput) (*domain.Profile, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, user.ID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		profile = &domain.Profile{
			ID:                    uuid.New(),
			UserID:                user.ID,
			LearningPaths:         datatypes.NewJSONType(domain.TopicsByPath{}),
			CompletedTopicsByPath: datatypes.NewJSONType(domain.TopicsByPath{}),
			CompletedPaths:        datatypes.JSONSlice[string]{},
		}
	} else if err != nil {
		return nil, err
	}

	profile.FullName = input.FullName
	profile.Email = input.Email
	profile.Phone = input.Phone
	profile.Bio = input.Bio
	profile.Skills = input.Skills
	profile.Experience = input.Experience
	profile.Education = input.Education
	profile.Linkedin = input.Linkedin
	profile.Github = input.Github

	if len(input.LearningPaths) > 0 {
		profile.LearningPaths = datatypes.NewJSONType(input.LearningPaths)
	}
	if len(input.CompletedTopicsByPath) > 0 {
		profile.CompletedTopicsByPath = datatypes.NewJSONType(input.CompletedTopicsByPath)
	}

	if err := uc.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return profile, nil
}

// DeleteProfile removes the profile and its badges. Deleting an account that
// never created a profile is a no-op.
func (uc *ProfileUseCase) DeleteProfile(ctx context.Context, username string) error {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return uc.profileRepo.DeleteByUserID(ctx, user.ID)
}

// AddLearningPath stores the topic list verbatim under a fresh path ID and
// initializes its completion state.
func (uc *ProfileUseCase) AddLearningPath(ctx context.Context, username string, topics []string) (*domain.Profile, error) {
	profile, err := uc.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	pathID := uuid.New().String()

	paths := profile.Paths()
	paths[pathID] = append([]string{}, topics...)
	profile.LearningPaths = datatypes.NewJSONType(paths)

	completed := profile.CompletedTopics()
	completed[pathID] = []string{}
	profile.CompletedTopicsByPath = datatypes.NewJSONType(completed)

	if err := uc.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return profile, nil
}

// CompleteTopic marks a topic done and drives the path's completion state.
// Completion is idempotent; the badge is awarded only on the first transition
// to a fully completed path, guarded both by completed-paths membership and a
// badge-existence check.
func (uc *ProfileUseCase) CompleteTopic(ctx context.Context, username, topic, pathID string) (*CompletionResult, error) {
	profile, err := uc.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	paths := profile.Paths()
	pathTopics, ok := paths[pathID]
	if !ok {
		return nil, domain.ErrPathNotFound
	}
	if !contains(pathTopics, topic) {
		return nil, domain.ErrTopicNotInPath
	}

	completed := profile.CompletedTopics()
	completedTopics := completed[pathID]
	if !contains(completedTopics, topic) {
		completedTopics = append(completedTopics, topic)
	}
	completed[pathID] = completedTopics
	profile.CompletedTopicsByPath = datatypes.NewJSONType(completed)

	pathCompleted := containsAll(completedTopics, pathTopics)

	result := &CompletionResult{
		Success:        true,
		TopicCompleted: topic,
		PathCompleted:  pathCompleted,
	}

	if pathCompleted && !profile.HasCompletedPath(pathID) {
		profile.CompletedPaths = append(profile.CompletedPaths, pathID)

		badgeName := "Learning Path Master: " + pathID
		exists, err := uc.badgeRepo.ExistsByProfileAndName(ctx, profile.ID, badgeName)
		if err != nil {
			return nil, err
		}
		if !exists {
			badge := &domain.Badge{
				ID:        uuid.New(),
				ProfileID: profile.ID,
				BadgeName: badgeName,
			}
			if err := uc.badgeRepo.Create(ctx, badge); err != nil {
				return nil, err
			}
			result.NewBadge = badgeName
			uc.log.Infow("badge awarded", "username", username, "badge", badgeName)
		}
	}

	if err := uc.profileRepo.Save(ctx, profile); err != nil {
		uc.log.Errorw("profile save failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	result.Progress = progressPercent(len(completedTopics), len(pathTopics))
	return result, nil
}

func (uc *ProfileUseCase) ListBadges(ctx context.Context, username string) ([]domain.Badge, error) {
	profile, err := uc.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	return uc.badgeRepo.ListByProfileID(ctx, profile.ID)
}

// LearningProgress summarizes every path on the profile.
func (uc *ProfileUseCase) LearningProgress(ctx context.Context, username string) (map[string]ProgressSummary, error) {
	profile, err := uc.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	completed := profile.CompletedTopics()
	progress := make(map[string]ProgressSummary)
	for pathID, pathTopics := range profile.Paths() {
		completedTopics := completed[pathID]
		progress[pathID] = ProgressSummary{
			TotalTopics:        len(pathTopics),
			CompletedTopics:    len(completedTopics),
			ProgressPercentage: progressPercent(len(completedTopics), len(pathTopics)),
			IsCompleted:        profile.HasCompletedPath(pathID),
		}
	}
	return progress, nil
}

// progressPercent defines an empty path as 0%, not NaN.
func progressPercent(completedCount, totalCount int) float64 {
	if totalCount == 0 {
		return 0.0
	}
	return float64(completedCount) / float64(totalCount) * 100
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// containsAll reports whether every wanted topic appears in the completed
// list. Set containment: order and duplicates in the curriculum do not matter.
func containsAll(completed, wanted []string) bool {
	set := make(map[string]struct{}, len(completed))
	for _, t := range completed {
		set[t] = struct{}{}
	}
	for _, t := range wanted {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}
