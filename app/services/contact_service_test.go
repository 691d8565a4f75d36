package services_test

import (
	"testing"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"github.com/eventnest/eventnest/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContactService(db *gorm.DB) *services.ContactService {
	return services.NewContactService(db, repositories.NewCatalogRepository(db))
}

func TestContactSubmitAnonymous(t *testing.T) {
	db := newTestDB(t)
	contacts := newContactService(db)

	contact, err := contacts.Submit(0, services.ContactInput{
		FullName: "Asha Rahman",
		Email:    "asha@example.com",
		Message:  "Do you deliver outside Dhaka?",
	})
	require.NoError(t, err)
	assert.Nil(t, contact.UserID)
}

func TestContactSubmitRequiresBasics(t *testing.T) {
	db := newTestDB(t)
	contacts := newContactService(db)

	_, err := contacts.Submit(0, services.ContactInput{
		FullName: "Asha Rahman",
		Email:    "asha@example.com",
		Message:  "   ",
	})
	assert.ErrorIs(t, err, services.ErrContactIncomplete)
}

func TestContactSnapshotsServiceName(t *testing.T) {
	db := newTestDB(t)
	contacts := newContactService(db)
	user := seedUser(t, db, "asha", false)
	ev := seedEvent(t, db, "Garden Wedding", "5000.00")

	contact, err := contacts.Submit(user.ID, services.ContactInput{
		FullName:    "Asha Rahman",
		Email:       "asha@example.com",
		Message:     "Quote please",
		ServiceType: models.ServiceTypeEvent,
		ServiceID:   ev.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, contact.UserID)
	assert.Equal(t, user.ID, *contact.UserID)
	assert.Equal(t, "Garden Wedding", contact.ServiceName)
}

func TestContactDropsDanglingServiceRef(t *testing.T) {
	db := newTestDB(t)
	contacts := newContactService(db)

	contact, err := contacts.Submit(0, services.ContactInput{
		FullName:    "Asha Rahman",
		Email:       "asha@example.com",
		Message:     "Quote please",
		ServiceType: models.ServiceTypeEvent,
		ServiceID:   999,
	})
	require.NoError(t, err)
	assert.Empty(t, contact.ServiceName)
	assert.Zero(t, contact.ServiceID)
}
