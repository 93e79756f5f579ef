package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"eduway/internal/domain"
	"eduway/internal/infrastructure/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProfileUseCase(t *testing.T) (*ProfileUseCase, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Profile{}, &domain.Badge{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zap.NewNop().Sugar()
	uc := NewProfileUseCase(
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		repository.NewBadgeRepository(db),
		log,
	)
	return uc, db
}

func createUserWithProfile(t *testing.T, uc *ProfileUseCase, db *gorm.DB, username string) {
	t.Helper()

	user := &domain.User{ID: uuid.New(), Username: username, Password: "irrelevant"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := uc.CreateOrUpdateProfile(context.Background(), username, ProfileInput{FullName: username}); err != nil {
		t.Fatalf("create profile: %v", err)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()

	if _, err := uc.GetProfile(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("GetProfile(unknown user) error = %v; want ErrUserNotFound", err)
	}

	user := &domain.User{ID: uuid.New(), Username: "bob", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := uc.GetProfile(ctx, "bob"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("GetProfile(no profile) error = %v; want ErrProfileNotFound", err)
	}
}

func TestAddLearningPath(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()
	createUserWithProfile(t, uc, db, "alice")

	topics := []string{"b", "a", "a", "c"}
	profile, err := uc.AddLearningPath(ctx, "alice", topics)
	if err != nil {
		t.Fatalf("AddLearningPath() error = %v", err)
	}

	paths := profile.Paths()
	if len(paths) != 1 {
		t.Fatalf("got %d paths; want 1", len(paths))
	}
	for pathID, got := range paths {
		if !reflect.DeepEqual(got, topics) {
			t.Errorf("paths[%s] = %v; want %v (order and duplicates preserved)", pathID, got, topics)
		}
		completed := profile.CompletedTopics()[pathID]
		if len(completed) != 0 {
			t.Errorf("completed[%s] = %v; want empty", pathID, completed)
		}
	}

	// Round-trips through the store
	reloaded, err := uc.GetProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if !reflect.DeepEqual(reloaded.Paths(), paths) {
		t.Errorf("reloaded paths = %v; want %v", reloaded.Paths(), paths)
	}
}

func TestAddLearningPath_NoProfile(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Username: "carol", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := uc.AddLearningPath(ctx, "carol", []string{"a"}); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("AddLearningPath() error = %v; want ErrProfileNotFound", err)
	}
}

func addPath(t *testing.T, uc *ProfileUseCase, username string, topics []string) string {
	t.Helper()
	profile, err := uc.AddLearningPath(context.Background(), username, topics)
	if err != nil {
		t.Fatalf("AddLearningPath() error = %v", err)
	}
	for pathID := range profile.Paths() {
		return pathID
	}
	t.Fatal("no path created")
	return ""
}

func TestCompleteTopic_FullScenario(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()
	createUserWithProfile(t, uc, db, "alice")
	pathID := addPath(t, uc, "alice", []string{"a", "b", "c"})

	steps := []struct {
		topic         string
		wantProgress  float64
		wantCompleted bool
		wantBadge     string
	}{
		{"a", float64(1) / 3 * 100, false, ""},
		{"b", float64(2) / 3 * 100, false, ""},
		{"c", 100.0, true, "Learning Path Master: " + pathID},
		// Repeat completion: idempotent, never a second badge
		{"c", 100.0, true, ""},
	}

	for i, step := range steps {
		res, err := uc.CompleteTopic(ctx, "alice", step.topic, pathID)
		if err != nil {
			t.Fatalf("step %d: CompleteTopic(%q) error = %v", i, step.topic, err)
		}
		if !res.Success || res.TopicCompleted != step.topic {
			t.Errorf("step %d: result = %+v; want success for topic %q", i, res, step.topic)
		}
		if res.Progress != step.wantProgress {
			t.Errorf("step %d: progress = %v; want %v", i, res.Progress, step.wantProgress)
		}
		if res.PathCompleted != step.wantCompleted {
			t.Errorf("step %d: pathCompleted = %v; want %v", i, res.PathCompleted, step.wantCompleted)
		}
		if res.NewBadge != step.wantBadge {
			t.Errorf("step %d: newBadge = %q; want %q", i, res.NewBadge, step.wantBadge)
		}
	}

	badges, err := uc.ListBadges(ctx, "alice")
	if err != nil {
		t.Fatalf("ListBadges() error = %v", err)
	}
	if len(badges) != 1 {
		t.Fatalf("got %d badges; want exactly 1", len(badges))
	}
	if badges[0].BadgeName != "Learning Path Master: "+pathID {
		t.Errorf("badge name = %q", badges[0].BadgeName)
	}
}

func TestCompleteTopic_Idempotent(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()
	createUserWithProfile(t, uc, db, "alice")
	pathID := addPath(t, uc, "alice", []string{"a", "b"})

	first, err := uc.CompleteTopic(ctx, "alice", "a", pathID)
	if err != nil {
		t.Fatalf("CompleteTopic() error = %v", err)
	}
	second, err := uc.CompleteTopic(ctx, "alice", "a", pathID)
	if err != nil {
		t.Fatalf("repeat CompleteTopic() error = %v", err)
	}
	if first.Progress != second.Progress {
		t.Errorf("progress changed on repeat: %v -> %v", first.Progress, second.Progress)
	}

	profile, err := uc.GetProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got := profile.CompletedTopics()[pathID]; !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("completed = %v; want [a]", got)
	}
}

func TestCompleteTopic_Validation(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()
	createUserWithProfile(t, uc, db, "alice")
	pathID := addPath(t, uc, "alice", []string{"a", "b", "c"})

	if _, err := uc.CompleteTopic(ctx, "alice", "z", pathID); !errors.Is(err, domain.ErrTopicNotInPath) {
		t.Errorf("CompleteTopic(unknown topic) error = %v; want ErrTopicNotInPath", err)
	}
	if _, err := uc.CompleteTopic(ctx, "alice", "a", "unknown-id"); !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("CompleteTopic(unknown path) error = %v; want ErrPathNotFound", err)
	}
}

func TestCompleteTopic_DuplicateTopicsDoNotBlockCompletion(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()
	createUserWithProfile(t, uc, db, "alice")
	// Duplicates count toward the total but completion is set containment
	pathID := addPath(t, uc, "alice", []string{"a", "a"})

	res, err := uc.CompleteTopic(ctx, "alice", "a", pathID)
	if err != nil {
		t.Fatalf("CompleteTopic() error = %v", err)
	}
	if !res.PathCompleted {
		t.Error("pathCompleted = false; want true with every distinct topic done")
	}
	if res.Progress != 50.0 {
		t.Errorf("progress = %v; want 50", res.Progress)
	}
	if res.NewBadge == "" {
		t.Error("expected a badge on completion")
	}
}

func TestCompleteTopic_ProgressMonotone(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()
	createUserWithProfile(t, uc, db, "alice")
	pathID := addPath(t, uc, "alice", []string{"a", "b", "c", "d"})

	// Note: the completion flow is a non-atomic read-modify-write per request,
	// unchanged from the source system; these calls are sequential on purpose.
	last := -1.0
	for _, topic := range []string{"b", "b", "a", "d", "c"} {
		res, err := uc.CompleteTopic(ctx, "alice", topic, pathID)
		if err != nil {
			t.Fatalf("CompleteTopic(%q) error = %v", topic, err)
		}
		if res.Progress < last {
			t.Errorf("progress decreased: %v -> %v", last, res.Progress)
		}
		last = res.Progress
	}
	if last != 100.0 {
		t.Errorf("final progress = %v; want 100", last)
	}
}

func TestCreateOrUpdateProfile_PreservesLearningState(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()
	createUserWithProfile(t, uc, db, "alice")
	pathID := addPath(t, uc, "alice", []string{"a", "b"})
	if _, err := uc.CompleteTopic(ctx, "alice", "a", pathID); err != nil {
		t.Fatalf("CompleteTopic() error = %v", err)
	}

	// Partial update without learning-path fields must not erase progress
	updated, err := uc.CreateOrUpdateProfile(ctx, "alice", ProfileInput{
		FullName: "Alice A.",
		Bio:      "new bio",
	})
	if err != nil {
		t.Fatalf("CreateOrUpdateProfile() error = %v", err)
	}
	if updated.FullName != "Alice A." || updated.Bio != "new bio" {
		t.Errorf("text fields not overwritten: %+v", updated)
	}
	if got := updated.Paths()[pathID]; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("paths[%s] = %v; want preserved [a b]", pathID, got)
	}
	if got := updated.CompletedTopics()[pathID]; !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("completed[%s] = %v; want preserved [a]", pathID, got)
	}

	// Explicit empty maps behave like omitted ones
	updated, err = uc.CreateOrUpdateProfile(ctx, "alice", ProfileInput{
		FullName:              "Alice A.",
		LearningPaths:         domain.TopicsByPath{},
		CompletedTopicsByPath: domain.TopicsByPath{},
	})
	if err != nil {
		t.Fatalf("CreateOrUpdateProfile() error = %v", err)
	}
	if len(updated.Paths()) != 1 {
		t.Errorf("paths erased by empty update: %v", updated.Paths())
	}

	// Non-empty maps do replace
	updated, err = uc.CreateOrUpdateProfile(ctx, "alice", ProfileInput{
		LearningPaths: domain.TopicsByPath{"p": {"x"}},
	})
	if err != nil {
		t.Fatalf("CreateOrUpdateProfile() error = %v", err)
	}
	if _, ok := updated.Paths()["p"]; !ok || len(updated.Paths()) != 1 {
		t.Errorf("non-empty update not applied: %v", updated.Paths())
	}
}

func TestCreateOrUpdateProfile_UserNotFound(t *testing.T) {
	uc, _ := setupProfileUseCase(t)

	if _, err := uc.CreateOrUpdateProfile(context.Background(), "ghost", ProfileInput{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("error = %v; want ErrUserNotFound", err)
	}
}

func TestDeleteProfile(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()
	createUserWithProfile(t, uc, db, "alice")
	pathID := addPath(t, uc, "alice", []string{"a"})
	if _, err := uc.CompleteTopic(ctx, "alice", "a", pathID); err != nil {
		t.Fatalf("CompleteTopic() error = %v", err)
	}

	if err := uc.DeleteProfile(ctx, "alice"); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}
	if _, err := uc.GetProfile(ctx, "alice"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("profile still present after delete: %v", err)
	}

	// Badges go with the profile
	var badgeCount int64
	if err := db.Model(&domain.Badge{}).Count(&badgeCount).Error; err != nil {
		t.Fatalf("count badges: %v", err)
	}
	if badgeCount != 0 {
		t.Errorf("badge rows = %d after profile delete; want 0", badgeCount)
	}

	// Idempotent when no profile exists
	if err := uc.DeleteProfile(ctx, "alice"); err != nil {
		t.Errorf("repeat DeleteProfile() error = %v; want nil", err)
	}

	if err := uc.DeleteProfile(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("DeleteProfile(unknown user) error = %v; want ErrUserNotFound", err)
	}
}

func TestLearningProgress(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()
	createUserWithProfile(t, uc, db, "alice")

	donePath := addPath(t, uc, "alice", []string{"a"})
	halfPath := addPath(t, uc, "alice", []string{"a", "b"})
	if _, err := uc.CompleteTopic(ctx, "alice", "a", donePath); err != nil {
		t.Fatalf("CompleteTopic() error = %v", err)
	}
	if _, err := uc.CompleteTopic(ctx, "alice", "a", halfPath); err != nil {
		t.Fatalf("CompleteTopic() error = %v", err)
	}

	// An empty path reports 0%, not NaN
	emptyPath := addPath(t, uc, "alice", []string{})

	progress, err := uc.LearningProgress(ctx, "alice")
	if err != nil {
		t.Fatalf("LearningProgress() error = %v", err)
	}

	want := map[string]ProgressSummary{
		donePath:  {TotalTopics: 1, CompletedTopics: 1, ProgressPercentage: 100.0, IsCompleted: true},
		halfPath:  {TotalTopics: 2, CompletedTopics: 1, ProgressPercentage: 50.0, IsCompleted: false},
		emptyPath: {TotalTopics: 0, CompletedTopics: 0, ProgressPercentage: 0.0, IsCompleted: false},
	}
	if !reflect.DeepEqual(progress, want) {
		t.Errorf("LearningProgress() = %+v; want %+v", progress, want)
	}
}

func TestListBadges_NotFoundConditions(t *testing.T) {
	uc, db := setupProfileUseCase(t)
	ctx := context.Background()

	if _, err := uc.ListBadges(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("ListBadges(unknown user) error = %v; want ErrUserNotFound", err)
	}

	user := &domain.User{ID: uuid.New(), Username: "bob", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := uc.ListBadges(ctx, "bob"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("ListBadges(no profile) error = %v; want ErrProfileNotFound", err)
	}
}
