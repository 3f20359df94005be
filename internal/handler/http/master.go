package http

import (
	"net/http"

	"github.com/infinite-track/hris-backend-go/internal/domain/master"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/headprogram"
	"github.com/infinite-track/hris-backend-go/internal/handler/http/response"
)

type MasterHandler interface {
	ListDivisions(w http.ResponseWriter, r *http.Request)
	CreateHeadProgram(w http.ResponseWriter, r *http.Request)
	GetHeadProgram(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{masterService: masterService}
}

func (h *masterHandlerImpl) ListDivisions(w http.ResponseWriter, r *http.Request) {
	divisions, err := h.masterService.ListDivisions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, divisions)
}

func (h *masterHandlerImpl) CreateHeadProgram(w http.ResponseWriter, r *http.Request) {
	var req headprogram.CreateHeadProgramRequest
	if err := decodeJSON(r, &req); err != nil {
		response.InvalidBody(w)
		return
	}

	created, err := h.masterService.CreateHeadProgram(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Headprogram created successfully", created)
}

func (h *masterHandlerImpl) GetHeadProgram(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	hp, err := h.masterService.GetHeadProgram(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, hp)
}
