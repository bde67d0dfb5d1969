package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gabrielvps/PintClub/internal/models"
	"github.com/gabrielvps/PintClub/internal/repositories"
	"github.com/gabrielvps/PintClub/internal/storage"
	"github.com/gabrielvps/PintClub/pkg/mq"
)

// PintCreatedEvent is published after every successful share. The consumer
// awards the pint's points to the sharer's membership row.
type PintCreatedEvent struct {
	PintID    uint  `json:"pint_id"`
	UserID    uint  `json:"user_id"`
	GroupID   uint  `json:"group_id"`
	Points    int   `json:"points"`
	Timestamp int64 `json:"timestamp"`
}

type PintService struct {
	pintRepo   *repositories.PintRepository
	groupRepo  *repositories.GroupRepository
	friendRepo *repositories.FriendRepository
	store      *storage.ObjectStore
	producer   *mq.KafkaProducer
	bucket     string
}

func NewPintService(
	pintRepo *repositories.PintRepository,
	groupRepo *repositories.GroupRepository,
	friendRepo *repositories.FriendRepository,
	store *storage.ObjectStore,
	producer *mq.KafkaProducer,
	bucket string,
) *PintService {
	return &PintService{
		pintRepo:   pintRepo,
		groupRepo:  groupRepo,
		friendRepo: friendRepo,
		store:      store,
		producer:   producer,
		bucket:     bucket,
	}
}

// UploadPintPhotos stores both captured photos under a shared
// "<user_id>-<timestamp>" key, the subject photo under the back/ prefix and
// the selfie under front/. The two uploads run in parallel; if either
// fails, no usable URL pair is returned and no post may be created.
func (s *PintService) UploadPintPhotos(userID uint, backPhoto, frontPhoto []byte) (backURL, frontURL string, err error) {
	// Nanosecond timestamp: a retry after a failed insert lands within the
	// same second and must not collide with the first attempt's objects.
	key := fmt.Sprintf("%d-%d", userID, time.Now().UnixNano())
	backKey := fmt.Sprintf("back/%s.jpg", key)
	frontKey := fmt.Sprintf("front/%s.jpg", key)

	var wg sync.WaitGroup
	var backErr, frontErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		backErr = s.store.Upload(s.bucket, backKey, backPhoto, false)
	}()
	go func() {
		defer wg.Done()
		frontErr = s.store.Upload(s.bucket, frontKey, frontPhoto, false)
	}()
	wg.Wait()

	if backErr != nil {
		return "", "", fmt.Errorf("failed to upload subject photo: %w", backErr)
	}
	if frontErr != nil {
		return "", "", fmt.Errorf("failed to upload selfie: %w", frontErr)
	}

	return s.store.PublicURL(s.bucket, backKey), s.store.PublicURL(s.bucket, frontKey), nil
}

// CreatePint inserts the post row and hands its points to the event
// pipeline. With no Kafka producer the points are applied synchronously so
// the leaderboard never silently loses a share.
func (s *PintService) CreatePint(pint *models.Pint) (*models.Pint, error) {
	if err := s.pintRepo.Create(pint); err != nil {
		return nil, err
	}

	s.pintRepo.MarkUploadedToday(pint.UserID, time.Now())

	event := &PintCreatedEvent{
		PintID:    pint.ID,
		UserID:    pint.UserID,
		GroupID:   pint.GroupID,
		Points:    pint.Points,
		Timestamp: time.Now().Unix(),
	}

	if s.producer != nil {
		if err := s.producer.SendMessage(fmt.Sprintf("%d", pint.GroupID), event); err == nil {
			return pint, nil
		} else {
			log.Printf("CreatePint: event publish failed, awarding points synchronously: %v", err)
		}
	}

	if err := s.AwardPoints(pint.GroupID, pint.UserID, pint.Points); err != nil {
		log.Printf("CreatePint: failed to award %d points to profile %d in group %d: %v",
			pint.Points, pint.UserID, pint.GroupID, err)
	}
	return pint, nil
}

// AwardPoints adds a share's points to the member's running total.
func (s *PintService) AwardPoints(groupID, profileID uint, points int) error {
	return s.groupRepo.AddPointsToMember(groupID, profileID, points)
}

// GetAllPints returns the global feed, newest first.
func (s *PintService) GetAllPints() ([]models.Pint, error) {
	return s.pintRepo.ListAll()
}

// GetGroupPints returns a group's feed, newest first.
func (s *PintService) GetGroupPints(groupID uint) ([]models.Pint, error) {
	return s.pintRepo.ListByGroup(groupID)
}

// GetFriendsPints returns pints shared by the caller's accepted friends,
// optionally restricted to the current local calendar day.
func (s *PintService) GetFriendsPints(userID uint, todayOnly bool) ([]models.Pint, error) {
	friendIDs, err := s.friendRepo.AcceptedFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return []models.Pint{}, nil
	}

	var dayStart, dayEnd *time.Time
	if todayOnly {
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 0, 1)
		dayStart, dayEnd = &start, &end
	}

	return s.pintRepo.ListByUsers(friendIDs, dayStart, dayEnd)
}

// HasUploadedToday gates the client's "add a drink" affordance: one
// successful share per user per local calendar day. Advisory only; there
// is deliberately no uniqueness constraint behind it.
func (s *PintService) HasUploadedToday(userID uint) (bool, error) {
	return s.pintRepo.HasUploadedToday(userID, time.Now())
}
