package service

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email/phone or password")
	ErrRefreshInvalid     = errors.New("invalid refresh token")
	ErrSelfDelete         = errors.New("cannot delete own account")
)

// translateDuplicate maps store-level unique-constraint violations onto the
// conflict sentinels. The pre-insert existence checks are only a fast path;
// under concurrent duplicate registrations the constraint is the authority.
func translateDuplicate(err error) error {
	var mysqlErr *mysql.MySQLError
	duplicated := errors.Is(err, gorm.ErrDuplicatedKey) ||
		(errors.As(err, &mysqlErr) && mysqlErr.Number == 1062)
	if !duplicated {
		return err
	}
	if strings.Contains(strings.ToLower(err.Error()), "phone") {
		return ErrPhoneTaken
	}
	return ErrEmailTaken
}
