package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/eventnest/eventnest/app/jobs"
	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/logger"
	"github.com/eventnest/eventnest/pkg/middleware"
	"github.com/eventnest/eventnest/pkg/queue"
)

type BookingController struct {
	bookings      *services.BookingService
	notifications *services.NotificationService
}

func NewBookingController(bookings *services.BookingService, notifications *services.NotificationService) *BookingController {
	return &BookingController{bookings: bookings, notifications: notifications}
}

func (bc *BookingController) Book(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)

	var in services.BookingInput
	if !c.BindJSON(&in) {
		return
	}

	booking, err := bc.bookings.Book(user.ID, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			c.NotFound("service not found")
		case errors.Is(err, services.ErrBookingInPast):
			c.Error(http.StatusBadRequest, err.Error())
		default:
			c.Error(http.StatusBadRequest, "could not place booking")
		}
		return
	}

	if err := queue.Dispatch(jobs.BookingConfirmationJob{BookingID: booking.ID}); err != nil {
		logger.Warn("bookings: confirmation job dispatch failed", "booking", booking.ID, "error", err)
	}
	if _, err := bc.notifications.Notify(user.ID, models.NotifyBooking, "Booking received",
		fmt.Sprintf("Your booking for %s on %s is pending confirmation.",
			booking.ServiceName, booking.Date.Format("2 Jan 2006"))); err != nil {
		logger.Warn("bookings: notification failed", "booking", booking.ID, "error", err)
	}

	c.Created(booking)
}

func (bc *BookingController) History(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	bookings, err := bc.bookings.History(user.ID)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load bookings")
		return
	}
	c.Success(bookings)
}

func (bc *BookingController) Cancel(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	id, ok := paramUint(c, "booking")
	if !ok {
		return
	}

	booking, err := bc.bookings.Cancel(user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			c.NotFound("booking not found")
		case errors.Is(err, services.ErrBookingNotCancellable):
			c.Error(http.StatusConflict, "booking can no longer be cancelled")
		default:
			c.Error(http.StatusInternalServerError, "could not cancel booking")
		}
		return
	}
	c.Success(booking)
}
