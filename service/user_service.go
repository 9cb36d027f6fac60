package service

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"visitordesk/api/v1/request"
	"visitordesk/dao"
	"visitordesk/internal/upload"
	"visitordesk/model"
	"visitordesk/utils"
)

// UserService covers the admin list/search/get/update/delete operations.
type UserService struct {
	dao     *dao.UserDAO
	uploads *upload.Manager
}

func NewUserService(dao *dao.UserDAO, uploads *upload.Manager) *UserService {
	return &UserService{dao: dao, uploads: uploads}
}

// List returns every user, newest first, or the case-insensitive substring
// matches when a search term is given.
func (s *UserService) List(search string) ([]model.User, error) {
	if search != "" {
		return s.dao.Search(search)
	}
	return s.dao.ListAll()
}

func (s *UserService) GetByID(id uint64) (*model.User, error) {
	user, err := s.dao.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update applies only the fields present in the request, one mapped column
// per known field. The response row is re-read from storage so it reflects
// exactly what was persisted.
func (s *UserService) Update(id uint64, req request.UpdateUserRequest, image *multipart.FileHeader) (*model.User, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != existing.Email {
			taken, err := s.dao.EmailTakenByOther(email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailTaken
			}
		}
		fields["email"] = email
	}
	if req.Phone != nil {
		if *req.Phone != existing.Phone {
			taken, err := s.dao.PhoneTakenByOther(*req.Phone, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrPhoneTaken
			}
		}
		fields["phone"] = *req.Phone
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hashed
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.State != nil {
		fields["state"] = *req.State
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.Country != nil {
		fields["country"] = *req.Country
	}
	if req.Pincode != nil {
		fields["pincode"] = *req.Pincode
	}

	if image != nil {
		ref, err := s.uploads.Save(image)
		if err != nil {
			return nil, err
		}
		if existing.ProfileImage != "" {
			if rmErr := s.uploads.Remove(existing.ProfileImage); rmErr != nil {
				logrus.WithFields(logrus.Fields{"user_id": id, "ref": existing.ProfileImage, "error": rmErr}).
					Warn("old profile image removal failed")
			}
		}
		fields["profile_image"] = ref
	}

	// An empty body still bumps updated_at.
	if len(fields) == 0 {
		fields["updated_at"] = gorm.Expr("CURRENT_TIMESTAMP")
	}
	if err := s.dao.UpdateFields(id, fields); err != nil {
		return nil, translateDuplicate(err)
	}

	return s.GetByID(id)
}

// Delete removes the record and its stored image. The acting admin may not
// delete their own account. A failed file removal is logged, not fatal.
func (s *UserService) Delete(id, actorID uint64) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if user.ID == actorID {
		return ErrSelfDelete
	}

	if user.ProfileImage != "" {
		if err := s.uploads.Remove(user.ProfileImage); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": id, "ref": user.ProfileImage, "error": err}).
				Warn("profile image removal failed")
		}
	}
	if err := s.dao.DeleteUser(id); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": id, "actor_id": actorID}).Info("user deleted")
	return nil
}
