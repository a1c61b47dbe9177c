package service

import (
	"context"
	"strings"
	"time"

	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserService struct {
	userRepo repository.UserRepository
	images   *ImageService
	now      func() time.Time
}

type ListUsersInput struct {
	Search string
	Sort   string
	Page   int
	Limit  int
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []models.User `json:"users"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

// UpdateProfileInput carries a partial update; nil fields are left alone.
type UpdateProfileInput struct {
	Name       *string
	Bio        *string
	Location   *string
	Website    *string
	Phone      *string
	Occupation *string
	Interests  []string
}

func NewUserService(userRepo repository.UserRepository, images *ImageService) *UserService {
	return &UserService{userRepo: userRepo, images: images, now: time.Now}
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetActiveUser is the lookup behind authentication: inactive users do not
// exist for it.
func (s *UserService) GetActiveUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, in ListUsersInput) (*UserPage, error) {
	page := resolvePage(in.Page, in.Limit, MaxPageLimit)
	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		Search: strings.TrimSpace(in.Search),
		Sort:   in.Sort,
		Page:   page,
	})
	if err != nil {
		return nil, err
	}
	return &UserPage{
		Users:      users,
		Total:      total,
		Page:       page.Page,
		TotalPages: repository.TotalPages(total, page.Limit),
	}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, targetID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(user.ID) {
		return nil, models.NewForbiddenError("You can only update your own profile")
	}

	name := user.Name
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if err := validation.ValidateName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if in.Bio != nil {
		if err := validation.Length("bio", *in.Bio, 0, validation.BioMax); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if in.Location != nil {
		if err := validation.Length("location", *in.Location, 0, validation.IdeaLocationMax); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	// Nothing is written until every field has passed validation.
	user.Name = name
	profile := user.Profile
	if profile == nil {
		profile = &models.UserProfile{UserID: user.ID, IsPublic: true}
	}
	if in.Bio != nil {
		profile.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Location != nil {
		profile.Location = strings.TrimSpace(*in.Location)
	}
	if in.Website != nil {
		profile.Website = strings.TrimSpace(*in.Website)
	}
	if in.Phone != nil {
		profile.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Occupation != nil {
		profile.Occupation = strings.TrimSpace(*in.Occupation)
	}
	if in.Interests != nil {
		profile.Interests = datatypes.JSONSlice[string](cleanList(in.Interests))
	}
	user.Profile = profile

	if err := s.userRepo.SaveWithProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UploadAvatar(ctx context.Context, actor Actor, targetID uuid.UUID, file UploadImageInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(user.ID) {
		return nil, models.NewForbiddenError("You can only update your own avatar")
	}

	file.Kind = ImageKindAvatar
	file.OwnerID = user.ID
	stored, err := s.images.Store(ctx, file)
	if err != nil {
		return nil, err
	}

	user.Avatar = stored.URL
	if user.Profile != nil {
		user.Profile.Avatar = stored.URL
	}
	if err := s.userRepo.SaveWithProfile(ctx, user); err != nil {
		s.images.Remove(stored)
		return nil, err
	}
	return user, nil
}

// DeleteUser deactivates the account. The user may delete themselves;
// administrators may delete anyone.
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, targetID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return models.NewNotFoundError("User", targetID)
	}
	if !actor.Owns(user.ID) {
		return models.NewForbiddenError("You can only delete your own account")
	}
	return s.userRepo.SoftDelete(ctx, user, s.now())
}

func (s *UserService) SetAdmin(ctx context.Context, targetID uuid.UUID, isAdmin bool) (*models.User, error) {
	if err := s.userRepo.SetAdmin(ctx, targetID, isAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}

func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListAdmins(ctx)
}

// cleanList trims entries and drops blanks.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
