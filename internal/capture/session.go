package capture

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gabrielvps/PintClub/internal/models"
)

// State is the capture workflow position. Transitions are linear:
// Idle -> BackCaptured -> BothCaptured -> Uploading -> Idle on a successful
// share, or back to BothCaptured when a share fails so the user can retry
// without re-capturing.
type State int

const (
	StateIdle State = iota
	StateBackCaptured
	StateBothCaptured
	StateUploading
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBackCaptured:
		return "back_captured"
	case StateBothCaptured:
		return "both_captured"
	case StateUploading:
		return "uploading"
	default:
		return "unknown"
	}
}

// Facing is the active camera side.
type Facing string

const (
	FacingBack  Facing = "back"
	FacingFront Facing = "front"
)

// DrinkTypes is the closed set of drink labels offered by the picker.
var DrinkTypes = []string{
	"Beer 🍺",
	"Wine 🍷",
	"Vodka 🥃",
	"Whiskey 🥃",
	"Gin 🍸",
	"Tequila 🥃",
}

// PointsPerDrink is multiplied by quantity to produce a share's points.
const PointsPerDrink = 10

var (
	// ErrGroupRequired is the one precondition failure surfaced as an
	// explicit prompt; the rest refuse silently.
	ErrGroupRequired        = errors.New("select a group to share your pint")
	ErrNotReady             = errors.New("share preconditions not met")
	ErrShareInProgress      = errors.New("share already in progress")
	ErrConfirmationRequired = errors.New("reset requires confirmation")
	ErrInvalidQuantity      = errors.New("quantity must be between 1 and 10")
	ErrInvalidDrinkType     = errors.New("unknown drink type")
	ErrUnknownGroup         = errors.New("group not in caller's memberships")
)

// GroupOption is one selectable target group.
type GroupOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Uploader stores both captured photos and resolves their public URLs.
type Uploader interface {
	UploadPintPhotos(userID uint, backPhoto, frontPhoto []byte) (backURL, frontURL string, err error)
}

// Poster inserts the post row once both uploads have succeeded.
type Poster interface {
	CreatePint(pint *models.Pint) (*models.Pint, error)
}

// Session holds one user's in-flight capture state. All state is
// transient and in-memory only: discarded on a successful share or an
// explicit confirmed reset, except the selected group, which survives a
// share for convenience across repeated rounds.
type Session struct {
	mu sync.Mutex

	userID     uint
	state      State
	facing     Facing
	backPhoto  []byte
	frontPhoto []byte

	location        string
	groups          []GroupOption
	selectedGroupID uint
	quantity        int
	drinkType       string
	pickerOpen      bool
}

// NewSession starts an idle session. The caller's group memberships are
// loaded up front and the first group is preselected as the share target.
func NewSession(userID uint, groups []GroupOption) *Session {
	s := &Session{
		userID:    userID,
		state:     StateIdle,
		facing:    FacingBack,
		groups:    groups,
		quantity:  1,
		drinkType: DrinkTypes[0],
	}
	if len(groups) > 0 {
		s.selectedGroupID = groups[0].ID
	}
	return s
}

// FormatAddress renders the reverse-geocoded location pill. Either part
// may be empty; the separator is kept regardless, matching what the feed
// displays.
func FormatAddress(street, city string) string {
	return fmt.Sprintf("%s, %s", street, city)
}

// SetLocation stores the resolved address. Location resolution is
// best-effort: a failed or denied lookup simply leaves it empty, which
// blocks sharing until a retry succeeds.
func (s *Session) SetLocation(street, city string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = FormatAddress(street, city)
}

// CapturePhoto records one camera frame. On the back side it stores the
// subject photo and flips to the front camera; on the front side it stores
// the selfie. An empty frame is a no-op.
func (s *Session) CapturePhoto(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(frame) == 0 {
		// The device returned nothing; the shutter press simply does not
		// advance the flow.
		log.Printf("capture: empty frame from user %d ignored", s.userID)
		return
	}
	if s.state == StateUploading {
		return
	}

	if s.facing == FacingBack {
		s.backPhoto = frame
		s.facing = FacingFront
	} else {
		s.frontPhoto = frame
	}
	s.recomputeState()
}

// ToggleFacing flips the active camera side without capturing.
func (s *Session) ToggleFacing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUploading {
		return
	}
	if s.facing == FacingBack {
		s.facing = FacingFront
	} else {
		s.facing = FacingBack
	}
}

// OpenGroupPicker overlays the group picker without disturbing any
// captured-photo state; CloseGroupPicker returns to the prior state.
func (s *Session) OpenGroupPicker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickerOpen = true
}

func (s *Session) CloseGroupPicker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickerOpen = false
}

// SelectGroup picks the share target from the loaded memberships.
func (s *Session) SelectGroup(groupID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		if g.ID == groupID {
			s.selectedGroupID = groupID
			return nil
		}
	}
	return ErrUnknownGroup
}

// SelectQuantity sets the drink count, closed range [1,10].
func (s *Session) SelectQuantity(n int) error {
	if n < 1 || n > 10 {
		return ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quantity = n
	return nil
}

// SelectDrinkType sets the drink label, one of DrinkTypes.
func (s *Session) SelectDrinkType(label string) error {
	valid := false
	for _, d := range DrinkTypes {
		if d == label {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidDrinkType
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drinkType = label
	return nil
}

// Share runs the submit pipeline: upload both photos in parallel, then
// insert exactly one post referencing the selected group. On upload or
// insert failure the photos stay intact and the session returns to
// BothCaptured for a user-initiated retry. On success everything except
// the selected group resets to idle.
//
// Missing group selection is the only precondition surfaced explicitly;
// a missing photo or location refuses silently with ErrNotReady.
func (s *Session) Share(uploader Uploader, poster Poster) (*models.Pint, error) {
	s.mu.Lock()
	if s.state == StateUploading {
		s.mu.Unlock()
		return nil, ErrShareInProgress
	}
	if s.backPhoto == nil || s.frontPhoto == nil || s.location == "" {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	if s.selectedGroupID == 0 {
		s.mu.Unlock()
		return nil, ErrGroupRequired
	}

	s.state = StateUploading
	userID := s.userID
	backPhoto := s.backPhoto
	frontPhoto := s.frontPhoto
	location := s.location
	groupID := s.selectedGroupID
	quantity := s.quantity
	drinkType := s.drinkType
	s.mu.Unlock()

	backURL, frontURL, err := uploader.UploadPintPhotos(userID, backPhoto, frontPhoto)
	if err != nil {
		s.failShare()
		return nil, err
	}

	pint := &models.Pint{
		UserID:      userID,
		GroupID:     groupID,
		Description: fmt.Sprintf("%dx %s", quantity, drinkType),
		Location:    location,
		ImageURL:    strings.Join([]string{backURL, frontURL}, ","),
		Points:      quantity * PointsPerDrink,
	}

	created, err := poster.CreatePint(pint)
	if err != nil {
		s.failShare()
		return nil, err
	}

	s.resetAfterShare()
	return created, nil
}

// ResetToCamera discards the captured photos and returns to idle. The
// action is destructive, so it refuses without explicit confirmation.
func (s *Session) ResetToCamera(confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUploading {
		return ErrShareInProgress
	}

	s.backPhoto = nil
	s.frontPhoto = nil
	s.facing = FacingBack
	s.quantity = 1
	s.drinkType = DrinkTypes[0]
	s.pickerOpen = false
	s.state = StateIdle
	return nil
}

// State reports the current workflow position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot is the session as presented to the client.
type Snapshot struct {
	State           string        `json:"state"`
	Facing          Facing        `json:"facing"`
	HasBackPhoto    bool          `json:"has_back_photo"`
	HasFrontPhoto   bool          `json:"has_front_photo"`
	Location        string        `json:"location"`
	Groups          []GroupOption `json:"groups"`
	SelectedGroupID uint          `json:"selected_group_id"`
	Quantity        int           `json:"quantity"`
	DrinkType       string        `json:"drink_type"`
	GroupPickerOpen bool          `json:"group_picker_open"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:           s.state.String(),
		Facing:          s.facing,
		HasBackPhoto:    s.backPhoto != nil,
		HasFrontPhoto:   s.frontPhoto != nil,
		Location:        s.location,
		Groups:          s.groups,
		SelectedGroupID: s.selectedGroupID,
		Quantity:        s.quantity,
		DrinkType:       s.drinkType,
		GroupPickerOpen: s.pickerOpen,
	}
}

// failShare returns to BothCaptured with photos intact so the user can
// retry the submit without re-capturing.
func (s *Session) failShare() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateBothCaptured
}

// resetAfterShare clears the transient capture state but keeps the
// selected group for the next round.
func (s *Session) resetAfterShare() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backPhoto = nil
	s.frontPhoto = nil
	s.facing = FacingBack
	s.quantity = 1
	s.drinkType = DrinkTypes[0]
	s.pickerOpen = false
	s.state = StateIdle
}

// recomputeState derives the photo-progress state; callers hold the lock.
func (s *Session) recomputeState() {
	switch {
	case s.backPhoto != nil && s.frontPhoto != nil:
		s.state = StateBothCaptured
	case s.backPhoto != nil:
		s.state = StateBackCaptured
	default:
		s.state = StateIdle
	}
}
