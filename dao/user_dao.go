package dao

import (
	"strings"

	"gorm.io/gorm"

	"visitordesk/model"
)

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// CreateUser inserts a new record. Uniqueness races surface here as
// duplicate-key errors, which the service layer translates.
func (dao *UserDAO) CreateUser(user *model.User) error {
	return dao.db.Create(user).Error
}

func (dao *UserDAO) FindByID(id uint64) (*model.User, error) {
	var user model.User
	if err := dao.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := dao.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) FindByPhone(phone string) (*model.User, error) {
	var user model.User
	if err := dao.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier matches either email or phone, used by login.
func (dao *UserDAO) FindByIdentifier(identifier string) (*model.User, error) {
	var user model.User
	if err := dao.db.Where("email = ? OR phone = ?", identifier, identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAll returns every record, newest first.
func (dao *UserDAO) ListAll() ([]model.User, error) {
	var users []model.User
	if err := dao.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Search performs a case-insensitive substring match over name, email,
// phone, state and city.
func (dao *UserDAO) Search(term string) ([]model.User, error) {
	q := "%" + strings.ToLower(term) + "%"
	var users []model.User
	err := dao.db.Where(
		"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR LOWER(state) LIKE ? OR LOWER(city) LIKE ?",
		q, q, q, q, q,
	).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// EmailTakenByOther reports whether a different record already holds the email.
func (dao *UserDAO) EmailTakenByOther(email string, id uint64) (bool, error) {
	var count int64
	err := dao.db.Model(&model.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error
	return count > 0, err
}

// PhoneTakenByOther reports whether a different record already holds the phone.
func (dao *UserDAO) PhoneTakenByOther(phone string, id uint64) (bool, error) {
	var count int64
	err := dao.db.Model(&model.User{}).Where("phone = ? AND id <> ?", phone, id).Count(&count).Error
	return count > 0, err
}

// UpdateFields applies the given column set. GORM refreshes updated_at on
// every Updates call.
func (dao *UserDAO) UpdateFields(id uint64, fields map[string]interface{}) error {
	return dao.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (dao *UserDAO) DeleteUser(id uint64) error {
	return dao.db.Delete(&model.User{}, id).Error
}
