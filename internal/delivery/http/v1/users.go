package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/services"
)

const profilePictureFolder = "users"

type registerRequest struct {
	FirstName      string `json:"first_name" binding:"required,notblank,min=2,max=20"`
	LastName       string `json:"last_name" binding:"required,notblank,min=2,max=20"`
	Mobile         string `json:"mobile" binding:"omitempty,numeric,len=10"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6,max=32"`
	Role           string `json:"role" binding:"omitempty,objectid"`
	ProfilePicture string `json:"profile_picture"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.logger.Info().
		Str("email", req.Email).
		Msg("register request")

	picture, err := h.assets.Resolve(profilePictureFolder, req.ProfilePicture)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to store profile picture")
		abort(c, newServiceError(err))
		return
	}

	user, err := h.auth.Register(c, services.RegisterParams{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       req.Password,
		Mobile:         req.Mobile,
		RoleID:         req.Role,
		ProfilePicture: picture,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		abort(c, newServiceError(err))
		return
	}

	respond(c, http.StatusCreated, "User created successfully", h.newUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=32"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newAPIError(http.StatusNotFound, "Invalid email or User not found"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "Login successful", loginResponse{
		Token: result.Token,
		User:  h.newUserResponse(result.User),
	})
}

func (h *handlerImpl) HandleGetUsers(c *gin.Context) {
	users, err := h.users.List(c, callerFromContext(c))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get users")
		abort(c, newServiceError(err))
		return
	}

	res := make([]userResponse, 0, len(users))
	for _, u := range users {
		res = append(res, h.newUserResponse(u))
	}
	respondOK(c, "Users fetched successfully", res)
}

func (h *handlerImpl) HandleGetUser(c *gin.Context) {
	var uri idURI
	if !h.bindURI(c, &uri) {
		return
	}

	user, err := h.users.Get(c, callerFromContext(c), uri.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", uri.ID).
			Msg("failed to get user")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Forbidden: You can only access your own profile"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "User fetched successfully", h.newUserResponse(user))
}

type updateUserRequest struct {
	ID             string  `json:"id" binding:"required,objectid"`
	FirstName      *string `json:"first_name" binding:"omitempty,notblank,min=2,max=20"`
	LastName       *string `json:"last_name" binding:"omitempty,notblank,min=2,max=20"`
	Mobile         *string `json:"mobile" binding:"omitempty,numeric,len=10"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Password       *string `json:"password" binding:"omitempty,min=6,max=32"`
	Role           *string `json:"role" binding:"omitempty,objectid"`
	ProfilePicture *string `json:"profile_picture"`
}

func (h *handlerImpl) HandleUpdateUser(c *gin.Context) {
	var req updateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if req.ProfilePicture != nil {
		picture, err := h.assets.Resolve(profilePictureFolder, *req.ProfilePicture)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to store profile picture")
			abort(c, newServiceError(err))
			return
		}
		req.ProfilePicture = &picture
	}

	user, err := h.users.Update(c, callerFromContext(c), services.UpdateUserParams{
		ID:             req.ID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Mobile:         req.Mobile,
		Password:       req.Password,
		RoleID:         req.Role,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", req.ID).
			Msg("failed to update user")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Forbidden: You can only update your own profile"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "User updated successfully", h.newUserResponse(user))
}

func (h *handlerImpl) HandleDeleteUser(c *gin.Context) {
	var req idRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.users.Delete(c, callerFromContext(c), req.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", req.ID).
			Msg("failed to delete user")
		if errors.Is(err, services.ErrForbidden) {
			abort(c, newForbiddenError("Forbidden: You can only delete your own profile"))
			return
		}
		abort(c, newServiceError(err))
		return
	}

	respondOK(c, "User deleted successfully", nil)
}

