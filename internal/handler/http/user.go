package http

import (
	"net/http"

	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListContacts(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

// Register implements UserHandler.
func (h *userHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		response.InvalidBody(w)
		return
	}

	resp, err := h.userService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User registered successfully", resp)
}

// Update implements UserHandler. It accepts JSON, or multipart form data
// when a profile photo is attached.
func (h *userHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	actor := user.Actor{ID: p.UserID, Role: p.Role}
	if !actor.CanManageUsers() && actor.ID != id {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	var req user.UpdateUserRequest
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		req = user.UpdateUserRequest{
			Name:          r.FormValue("name"),
			Email:         r.FormValue("email"),
			Role:          r.FormValue("role"),
			Password:      formPtr(r, "password"),
			Division:      formPtr(r, "division"),
			Position:      formPtr(r, "position"),
			PhoneNumber:   formPtr(r, "phone_number"),
			NIK:           formPtr(r, "nik"),
			Address:       formPtr(r, "address"),
			ContractStart: formPtr(r, "contract_start"),
			ContractEnd:   formPtr(r, "contract_end"),
		}

		photo, err := formFile(r, "photo")
		if err != nil {
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		defer photo.Close()
		req.Photo, req.PhotoName, req.PhotoSize = photo.Reader(), photo.name, photo.size
	} else if err := decodeJSON(r, &req); err != nil {
		response.InvalidBody(w)
		return
	}
	req.ID = id
	req.Actor = actor

	// Role changes are checked against the token here and against the
	// stored role in the service.
	if err := req.Authorize(p.Role); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.userService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User updated successfully", resp)
}

// List implements UserHandler.
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

// GetByID implements UserHandler.
func (h *userHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	u, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, u)
}

// Delete implements UserHandler.
func (h *userHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User deleted successfully", nil)
}

// ListContacts implements UserHandler.
func (h *userHandlerImpl) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.userService.ListContacts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, contacts)
}
