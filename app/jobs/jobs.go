// Package jobs defines the background jobs dispatched through the queue.
// Jobs carry only row IDs; each Handle reloads fresh state so stale
// payloads cannot resurrect old data.
package jobs

import (
	"fmt"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/config"
	"github.com/eventnest/eventnest/pkg/logger"
	"github.com/eventnest/eventnest/pkg/mail"
	"github.com/eventnest/eventnest/pkg/queue"
	"gorm.io/gorm"
)

var db *gorm.DB

// Configure hands the jobs their database handle. Must run before workers
// start.
func Configure(d *gorm.DB) { db = d }

// Register makes every job type known to the queue for deserialization.
func Register() {
	queue.Register("jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
	queue.Register("jobs.BookingConfirmationJob", func() queue.Job { return &BookingConfirmationJob{} })
	queue.Register("jobs.ContactReceivedJob", func() queue.Job { return &ContactReceivedJob{} })
}

// ------------------- OrderConfirmationJob -------------------

// OrderConfirmationJob emails the buyer after checkout succeeds.
type OrderConfirmationJob struct {
	OrderID uint `json:"order_id"`
}

func (j OrderConfirmationJob) Handle() error {
	var order models.Order
	err := db.Preload("User").Preload("Items.Item").First(&order, j.OrderID).Error
	if err != nil {
		return fmt.Errorf("jobs: load order %d: %w", j.OrderID, err)
	}

	body := fmt.Sprintf(
		"<h2>Thanks for your order, %s!</h2>"+
			"<p>Order <strong>%s</strong> was placed for a total of %s.</p>"+
			"<p>We will let you know as soon as it ships.</p>",
		order.User.Username, order.Number, order.TotalAmount.StringFixed(2))

	err = mail.To(order.User.Email).
		Subject(fmt.Sprintf("Order %s confirmed", order.Number)).
		Body(body).
		Send()
	if err != nil {
		logger.Warn("jobs: order confirmation mail failed", "order", order.Number, "error", err)
		return err
	}
	return nil
}

// ------------------- BookingConfirmationJob -------------------

// BookingConfirmationJob emails the customer after a booking is placed.
type BookingConfirmationJob struct {
	BookingID uint `json:"booking_id"`
}

func (j BookingConfirmationJob) Handle() error {
	var booking models.Booking
	if err := db.First(&booking, j.BookingID).Error; err != nil {
		return fmt.Errorf("jobs: load booking %d: %w", j.BookingID, err)
	}
	var user models.User
	if err := db.First(&user, booking.UserID).Error; err != nil {
		return fmt.Errorf("jobs: load user %d: %w", booking.UserID, err)
	}

	body := fmt.Sprintf(
		"<h2>Booking received</h2>"+
			"<p>We have your request for <strong>%s</strong> on %s at %s.</p>"+
			"<p>Quoted amount: %s. We will confirm shortly.</p>",
		booking.ServiceName, booking.Date.Format("2 Jan 2006"), booking.TimeSlot,
		booking.TotalAmount.StringFixed(2))

	err := mail.To(user.Email).
		Subject("We received your booking").
		Body(body).
		Send()
	if err != nil {
		logger.Warn("jobs: booking confirmation mail failed", "booking", j.BookingID, "error", err)
		return err
	}
	return nil
}

// ------------------- ContactReceivedJob -------------------

// ContactReceivedJob forwards a contact-form submission to the support
// address.
type ContactReceivedJob struct {
	ContactID uint `json:"contact_id"`
}

func (j ContactReceivedJob) Handle() error {
	var contact models.Contact
	if err := db.First(&contact, j.ContactID).Error; err != nil {
		return fmt.Errorf("jobs: load contact %d: %w", j.ContactID, err)
	}

	subject := contact.Subject
	if subject == "" {
		subject = "New contact form submission"
	}
	body := fmt.Sprintf(
		"<p>From: %s &lt;%s&gt;</p><p>%s</p>",
		contact.FullName, contact.Email, contact.Message)
	if contact.ServiceName != "" {
		body += fmt.Sprintf("<p>Regarding: %s (%s #%d)</p>",
			contact.ServiceName, contact.ServiceType, contact.ServiceID)
	}

	err := mail.To(config.Get("SUPPORT_EMAIL", "support@eventnest.app")).
		Subject(subject).
		Body(body).
		Send()
	if err != nil {
		logger.Warn("jobs: contact mail failed", "contact", j.ContactID, "error", err)
		return err
	}
	return nil
}
