package services_test

import (
	"testing"
	"time"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"github.com/eventnest/eventnest/app/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBookingService(db *gorm.DB) *services.BookingService {
	return services.NewBookingService(db, repositories.NewCatalogRepository(db))
}

func seedEvent(t *testing.T, db *gorm.DB, title, price string) *models.EventManagement {
	t.Helper()
	ev := &models.EventManagement{
		Title: title,
		Price: decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(ev).Error)
	return ev
}

func TestBookSnapshotsPriceAndTitle(t *testing.T) {
	db := newTestDB(t)
	bookings := newBookingService(db)
	user := seedUser(t, db, "asha", false)
	ev := seedEvent(t, db, "Garden Wedding", "5000.00")

	booking, err := bookings.Book(user.ID, services.BookingInput{
		ServiceType: models.ServiceTypeEvent,
		ServiceID:   ev.ID,
		Date:        time.Now().Add(48 * time.Hour),
		TimeSlot:    "15:30",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, "Garden Wedding", booking.ServiceName)
	assert.True(t, booking.TotalAmount.Equal(decimal.RequireFromString("5000.00")))

	// A later price edit leaves the booked amount alone.
	require.NoError(t, db.Model(ev).
		Update("price", decimal.RequireFromString("7500.00")).Error)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.True(t, reloaded.TotalAmount.Equal(decimal.RequireFromString("5000.00")))
}

func TestBookRejectsPastDate(t *testing.T) {
	db := newTestDB(t)
	bookings := newBookingService(db)
	user := seedUser(t, db, "asha", false)
	ev := seedEvent(t, db, "Garden Wedding", "5000.00")

	_, err := bookings.Book(user.ID, services.BookingInput{
		ServiceType: models.ServiceTypeEvent,
		ServiceID:   ev.ID,
		Date:        time.Now().Add(-48 * time.Hour),
		TimeSlot:    "15:30",
	})
	assert.ErrorIs(t, err, services.ErrBookingInPast)
}

func TestBookRejectsBadTimeSlot(t *testing.T) {
	db := newTestDB(t)
	bookings := newBookingService(db)
	user := seedUser(t, db, "asha", false)
	ev := seedEvent(t, db, "Garden Wedding", "5000.00")

	_, err := bookings.Book(user.ID, services.BookingInput{
		ServiceType: models.ServiceTypeEvent,
		ServiceID:   ev.ID,
		Date:        time.Now().Add(48 * time.Hour),
		TimeSlot:    "half past three",
	})
	assert.Error(t, err)
}

func TestBookUnknownService(t *testing.T) {
	db := newTestDB(t)
	bookings := newBookingService(db)
	user := seedUser(t, db, "asha", false)

	_, err := bookings.Book(user.ID, services.BookingInput{
		ServiceType: models.ServiceTypeEvent,
		ServiceID:   999,
		Date:        time.Now().Add(48 * time.Hour),
		TimeSlot:    "15:30",
	})
	assert.ErrorIs(t, err, services.ErrBookingNotFound)
}

func TestBookingCancelIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	bookings := newBookingService(db)
	user := seedUser(t, db, "asha", false)
	ev := seedEvent(t, db, "Garden Wedding", "5000.00")

	booking, err := bookings.Book(user.ID, services.BookingInput{
		ServiceType: models.ServiceTypeEvent,
		ServiceID:   ev.ID,
		Date:        time.Now().Add(48 * time.Hour),
		TimeSlot:    "15:30",
	})
	require.NoError(t, err)

	cancelled, err := bookings.Cancel(user.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	again, err := bookings.Cancel(user.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, again.Status)
}

func TestCompletedBookingNotCancellable(t *testing.T) {
	db := newTestDB(t)
	bookings := newBookingService(db)
	user := seedUser(t, db, "asha", false)
	ev := seedEvent(t, db, "Garden Wedding", "5000.00")

	booking, err := bookings.Book(user.ID, services.BookingInput{
		ServiceType: models.ServiceTypeEvent,
		ServiceID:   ev.ID,
		Date:        time.Now().Add(48 * time.Hour),
		TimeSlot:    "15:30",
	})
	require.NoError(t, err)

	_, err = bookings.SetStatus(booking.ID, models.BookingCompleted)
	require.NoError(t, err)

	_, err = bookings.Cancel(user.ID, booking.ID)
	assert.ErrorIs(t, err, services.ErrBookingNotCancellable)
}

func TestBookingScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	bookings := newBookingService(db)
	owner := seedUser(t, db, "asha", false)
	other := seedUser(t, db, "badru", false)
	ev := seedEvent(t, db, "Garden Wedding", "5000.00")

	booking, err := bookings.Book(owner.ID, services.BookingInput{
		ServiceType: models.ServiceTypeEvent,
		ServiceID:   ev.ID,
		Date:        time.Now().Add(48 * time.Hour),
		TimeSlot:    "15:30",
	})
	require.NoError(t, err)

	_, err = bookings.Cancel(other.ID, booking.ID)
	assert.ErrorIs(t, err, services.ErrBookingNotFound)
}
