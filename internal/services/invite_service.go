package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gabrielvps/PintClub/internal/models"
	"github.com/gabrielvps/PintClub/internal/repositories"
)

const inviteValidity = 7 * 24 * time.Hour

// User-facing invite errors. The messages are shown verbatim by the mobile
// client, hence the product language.
var (
	ErrUserNotFound       = errors.New("Usuário não encontrado")
	ErrAlreadyGroupMember = errors.New("Usuário já é membro do grupo")
	ErrInviteAlreadySent  = errors.New("Convite já enviado para este usuário")
	ErrGroupFull          = errors.New("Grupo está cheio")
	ErrInviteInactive     = errors.New("Convite inválido ou desativado")
	ErrInviteExpired      = errors.New("Convite expirado")
)

// MembershipConflictError reports that the viewer of an invite link already
// belongs to the group, carrying the group id so the client can navigate
// there instead.
type MembershipConflictError struct {
	GroupID uint
}

func (e *MembershipConflictError) Error() string {
	return "Você já é membro deste grupo"
}

type InviteService struct {
	inviteRepo  *repositories.InviteRepository
	groupRepo   *repositories.GroupRepository
	profileRepo *repositories.ProfileRepository
}

func NewInviteService(inviteRepo *repositories.InviteRepository, groupRepo *repositories.GroupRepository, profileRepo *repositories.ProfileRepository) *InviteService {
	return &InviteService{
		inviteRepo:  inviteRepo,
		groupRepo:   groupRepo,
		profileRepo: profileRepo,
	}
}

// SendGroupInviteByUsername creates a pending invite addressed to a named
// user. Conflicts (unknown user, existing member, open invite) abort
// without side effects.
func (s *InviteService) SendGroupInviteByUsername(groupID uint, username string, invitedBy uint) (*models.GroupInvite, error) {
	profile, err := s.profileRepo.GetByUsername(username)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if _, err := s.groupRepo.GetMember(groupID, profile.ID); err == nil {
		return nil, ErrAlreadyGroupMember
	}

	if _, err := s.inviteRepo.GetPendingByGroupAndUser(groupID, profile.ID); err == nil {
		return nil, ErrInviteAlreadySent
	}

	now := time.Now()
	invite := &models.GroupInvite{
		GroupID:         groupID,
		InvitedBy:       invitedBy,
		InvitedUserID:   profile.ID,
		InvitedUsername: username,
		Status:          models.InviteStatusPending,
		InvitedAt:       now,
		ExpiresAt:       now.Add(inviteValidity),
	}
	if err := s.inviteRepo.Create(invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// InviteLink renders the shareable deep link for a group's invite token.
func (s *InviteService) InviteLink(baseURL string, groupID uint) (string, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return "", errors.New("group not found")
	}
	return fmt.Sprintf("%s/invite/%s", baseURL, group.InviteToken), nil
}

// GroupPreview is what an invite link shows before joining.
type GroupPreview struct {
	GroupDTO
	Members []GroupMemberDTO `json:"members"`
}

// GetGroupByToken resolves an invite token into a group preview. Inactive
// tokens are invalid. When the viewer (0 = anonymous) already belongs to
// the group, a MembershipConflictError carrying the group id is returned.
func (s *InviteService) GetGroupByToken(token string, viewerID uint) (*GroupPreview, error) {
	group, err := s.groupRepo.GetByInviteToken(token)
	if err != nil {
		return nil, ErrInviteInactive
	}
	if !group.InviteActive {
		return nil, ErrInviteInactive
	}

	if viewerID != 0 {
		if _, err := s.groupRepo.GetMember(group.ID, viewerID); err == nil {
			return nil, &MembershipConflictError{GroupID: group.ID}
		}
	}

	members, err := s.groupRepo.GetMembers(group.ID)
	if err != nil {
		return nil, err
	}
	memberDTOs := dedupedMemberDTOs(members)

	return &GroupPreview{
		GroupDTO: toGroupDTO(group, len(memberDTOs)),
		Members:  memberDTOs,
	}, nil
}

// JoinGroupViaInvite joins the group behind an invite token. The member
// limit is checked before any insert; joining twice is a conflict and never
// produces a duplicate membership row.
func (s *InviteService) JoinGroupViaInvite(token string, profileID uint) (*models.Group, error) {
	group, err := s.groupRepo.GetByInviteToken(token)
	if err != nil {
		return nil, ErrInviteInactive
	}
	if !group.InviteActive {
		return nil, ErrInviteInactive
	}

	if _, err := s.groupRepo.GetMember(group.ID, profileID); err == nil {
		return nil, &MembershipConflictError{GroupID: group.ID}
	}

	count, err := s.groupRepo.CountMembers(group.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(group.MemberLimit) {
		return nil, ErrGroupFull
	}

	member := &models.GroupMember{
		GroupID:   group.ID,
		ProfileID: profileID,
		Role:      "member",
		Points:    0,
		JoinedAt:  time.Now(),
	}
	if err := s.groupRepo.AddMember(member); err != nil {
		return nil, err
	}
	return group, nil
}

// ListPendingInvites returns the caller's open, unexpired invites.
func (s *InviteService) ListPendingInvites(profileID uint) ([]models.GroupInvite, error) {
	return s.inviteRepo.ListPendingByUser(profileID, time.Now())
}

// RespondToInvite accepts or declines a pending invite. Accepting joins
// the group, subject to the same member-limit check as the token flow.
func (s *InviteService) RespondToInvite(inviteID, profileID uint, status string) error {
	if status != models.InviteStatusAccepted && status != models.InviteStatusDeclined {
		return errors.New("invalid invite response")
	}

	invite, err := s.inviteRepo.GetByID(inviteID)
	if err != nil {
		return errors.New("invite not found")
	}
	if invite.InvitedUserID != profileID {
		return errors.New("invite not found")
	}
	if invite.Status != models.InviteStatusPending {
		return errors.New("invite already answered")
	}

	now := time.Now()
	if now.After(invite.ExpiresAt) {
		s.inviteRepo.UpdateStatus(inviteID, profileID, models.InviteStatusExpired, now)
		return ErrInviteExpired
	}

	if status == models.InviteStatusAccepted {
		count, err := s.groupRepo.CountMembers(invite.GroupID)
		if err != nil {
			return err
		}
		group, err := s.groupRepo.GetByID(invite.GroupID)
		if err != nil {
			return errors.New("group not found")
		}
		if count >= int64(group.MemberLimit) {
			return ErrGroupFull
		}
	}

	if _, err := s.inviteRepo.UpdateStatus(inviteID, profileID, status, now); err != nil {
		return err
	}

	if status == models.InviteStatusAccepted {
		member := &models.GroupMember{
			GroupID:   invite.GroupID,
			ProfileID: profileID,
			Role:      "member",
			Points:    0,
			JoinedAt:  now,
		}
		if err := s.groupRepo.AddMember(member); err != nil {
			return err
		}
	}
	return nil
}
