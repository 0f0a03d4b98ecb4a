package directory

import (
	"errors"
	"strings"

	"tradeportal-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Identity resolution: mapping a registration email to a login principal has
// exactly two named outcomes. Either an orphaned principal with that email is
// relinked, or a fresh one is created. Anything else is a duplicate.

type ResolveOutcome string

const (
	OutcomeLinkExisting ResolveOutcome = "link-existing"
	OutcomeCreateNew    ResolveOutcome = "create-new"
)

var ErrEmailTaken = errors.New("该邮箱已被注册。")

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// ResolvePrincipal finds or creates the login principal for an email. The
// principal starts inactive when created here; activation happens on approval.
// active controls the initial state for the admin path, which creates
// pre-approved contacts.
func ResolvePrincipal(tx *gorm.DB, email, name, password string, active bool) (*models.User, ResolveOutcome, error) {
	email = NormalizeEmail(email)

	var contactCount int64
	if err := tx.Model(&models.Contact{}).Where("email = ?", email).Count(&contactCount).Error; err != nil {
		return nil, "", err
	}
	if contactCount > 0 {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	var existing models.User
	err = tx.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		// A principal without a contact is an orphan we may reuse; one that is
		// already linked belongs to somebody else.
		var linked int64
		if err := tx.Model(&models.Contact{}).Where("user_id = ?", existing.ID).Count(&linked).Error; err != nil {
			return nil, "", err
		}
		if linked > 0 {
			return nil, "", ErrEmailTaken
		}
		existing.Name = name
		existing.PasswordHash = string(hash)
		existing.IsActive = active
		if err := tx.Save(&existing).Error; err != nil {
			return nil, "", err
		}
		return &existing, OutcomeLinkExisting, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := models.User{
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
			IsActive:     active,
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, "", err
		}
		return &user, OutcomeCreateNew, nil
	default:
		return nil, "", err
	}
}
