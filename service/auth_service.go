package service

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"visitordesk/api/v1/request"
	"visitordesk/dao"
	"visitordesk/internal/auth"
	"visitordesk/internal/upload"
	"visitordesk/model"
	"visitordesk/utils"
)

// AuthService composes the hasher, the token manager and the credential
// store for the registration / login / refresh flows.
type AuthService struct {
	dao     *dao.UserDAO
	tokens  *auth.TokenManager
	uploads *upload.Manager
}

func NewAuthService(dao *dao.UserDAO, tokens *auth.TokenManager, uploads *upload.Manager) *AuthService {
	return &AuthService{dao: dao, tokens: tokens, uploads: uploads}
}

// Register creates a new account with the role forced to "user" and issues a
// token pair for the created identity. Email is checked before phone, so a
// request violating both only reports the email conflict.
func (s *AuthService) Register(req request.RegisterRequest, image *multipart.FileHeader) (*model.User, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.dao.FindByEmail(email); err == nil {
		return nil, "", "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	if _, err := s.dao.FindByPhone(req.Phone); err == nil {
		return nil, "", "", ErrPhoneTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	imageRef := ""
	if image != nil {
		imageRef, err = s.uploads.Save(image)
		if err != nil {
			return nil, "", "", err
		}
	}

	user := &model.User{
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		Password:     hashed,
		ProfileImage: imageRef,
		Address:      req.Address,
		State:        req.State,
		City:         req.City,
		Country:      req.Country,
		Pincode:      req.Pincode,
		Role:         model.RoleUser,
	}
	if err := s.dao.CreateUser(user); err != nil {
		if imageRef != "" {
			if rmErr := s.uploads.Remove(imageRef); rmErr != nil {
				logrus.WithFields(logrus.Fields{"ref": imageRef, "error": rmErr}).Warn("orphan image cleanup failed")
			}
		}
		return nil, "", "", translateDuplicate(err)
	}

	access, refresh, err := s.tokens.GenerateTokens(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", "", err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("user registered")
	return user, access, refresh, nil
}

// Login authenticates by email or phone. Unknown identifier and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(identifier, password string) (*model.User, string, string, error) {
	user, err := s.dao.FindByIdentifier(strings.TrimSpace(identifier))
	if err != nil || user.ID == 0 {
		return nil, "", "", ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.GenerateTokens(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

// Refresh verifies a refresh token, re-fetches the current record (the role
// may have changed since issuance) and re-issues both tokens.
func (s *AuthService) Refresh(refreshToken string) (string, string, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", "", ErrRefreshInvalid
	}

	user, err := s.dao.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrUserNotFound
		}
		return "", "", err
	}
	return s.tokens.GenerateTokens(user.ID, user.Email, user.Role)
}
