package controllers

import (
	"errors"
	"net/http"

	"github.com/eventnest/eventnest/app/jobs"
	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/logger"
	"github.com/eventnest/eventnest/pkg/middleware"
	"github.com/eventnest/eventnest/pkg/queue"
)

type ContactController struct {
	contacts *services.ContactService
}

func NewContactController(contacts *services.ContactService) *ContactController {
	return &ContactController{contacts: contacts}
}

// Submit accepts the contact form from anyone; a logged-in user is linked
// to the submission when present.
func (cc *ContactController) Submit(c *ctx.Context) {
	var in services.ContactInput
	if !c.BindJSON(&in) {
		return
	}

	var userID uint
	if user, ok := middleware.UserFrom(c.R); ok {
		userID = user.ID
	}

	contact, err := cc.contacts.Submit(userID, in)
	if err != nil {
		if errors.Is(err, services.ErrContactIncomplete) {
			c.Error(http.StatusBadRequest, err.Error())
			return
		}
		c.Error(http.StatusInternalServerError, "could not submit message")
		return
	}

	if err := queue.Dispatch(jobs.ContactReceivedJob{ContactID: contact.ID}); err != nil {
		logger.Warn("contact: forward job dispatch failed", "contact", contact.ID, "error", err)
	}
	c.Created(map[string]any{"received": true, "id": contact.ID})
}
