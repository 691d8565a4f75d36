package controllers

import (
	"errors"
	"net/http"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/middleware"
	"github.com/eventnest/eventnest/pkg/session"
)

// AuthController handles signup, login and profile management. Logins are
// dual-tracked: the browser gets a session cookie, API clients get the JWT
// pair from the same endpoint.
type AuthController struct {
	auth  *services.AuthService
	users *repositories.UserRepository
}

func NewAuthController(auth *services.AuthService, users *repositories.UserRepository) *AuthController {
	return &AuthController{auth: auth, users: users}
}

func (a *AuthController) Signup(c *ctx.Context) {
	var in services.SignupInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := a.auth.Signup(in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrEmailTaken):
			c.Error(http.StatusConflict, err.Error())
		default:
			c.Error(http.StatusInternalServerError, "could not create account")
		}
		return
	}

	a.establish(c, user)
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (a *AuthController) Login(c *ctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := a.auth.Login(in.Username, in.Password)
	if err != nil {
		c.Unauthorized("invalid credentials")
		return
	}

	a.establish(c, user)
}

// establish writes the session cookie and returns the JWT pair plus the
// session ID, which WebSocket clients pass back as session_key.
func (a *AuthController) establish(c *ctx.Context, user *models.User) {
	sess := session.FromCtx(c.R)
	sess.SetUserID(user.ID)
	if err := sess.Save(c.W); err != nil {
		c.Error(http.StatusInternalServerError, "could not start session")
		return
	}

	access, refresh, err := a.auth.Token(user)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not issue token")
		return
	}

	c.Success(map[string]any{
		"user":          user,
		"token":         access,
		"refresh_token": refresh,
		"session_key":   sess.ID(),
	})
}

func (a *AuthController) Logout(c *ctx.Context) {
	sess := session.FromCtx(c.R)
	sess.Invalidate()
	if err := sess.Save(c.W); err != nil {
		c.Error(http.StatusInternalServerError, "could not end session")
		return
	}
	c.Success(map[string]any{"logged_out": true})
}

func (a *AuthController) Profile(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)
	full, err := a.users.FindByID(user.ID)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load profile")
		return
	}
	c.Success(full)
}

type profileInput struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (a *AuthController) UpdateProfile(c *ctx.Context) {
	user, _ := middleware.UserFrom(c.R)

	var in profileInput
	if !c.BindJSON(&in) {
		return
	}

	full, err := a.users.FindByID(user.ID)
	if err != nil {
		c.Error(http.StatusInternalServerError, "could not load profile")
		return
	}

	full.Profile.UserID = full.ID
	full.Profile.FullName = in.FullName
	full.Profile.Phone = in.Phone
	full.Profile.Address = in.Address
	if err := a.users.SaveProfile(&full.Profile); err != nil {
		c.Error(http.StatusInternalServerError, "could not save profile")
		return
	}
	c.Success(full)
}
