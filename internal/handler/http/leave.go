package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	ListForStage(w http.ResponseWriter, r *http.Request)
	GetMyBalance(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService}
}

// Submit implements LeaveHandler.
func (h *leaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	attachment, err := formFile(r, "upload_image")
	if err != nil {
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer attachment.Close()

	req := leave.SubmitRequest{
		UserID:         p.UserID,
		ProgramName:    r.FormValue("programName"),
		Division:       r.FormValue("division"),
		StartDate:      r.FormValue("start_date"),
		EndDate:        r.FormValue("end_date"),
		LeaveType:      r.FormValue("leavetype"),
		Description:    r.FormValue("description"),
		Phone:          r.FormValue("phone"),
		Address:        r.FormValue("address"),
		Attachment:     attachment.Reader(),
		AttachmentName: attachment.name,
		AttachmentSize: attachment.size,
	}

	resp, err := h.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", resp)
}

// Decide implements LeaveHandler.
func (h *leaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	leaveID, err := pathID(r, "leaveId")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.DecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.InvalidBody(w)
		return
	}
	req.LeaveID = leaveID
	req.Stage = chi.URLParam(r, "stage")
	req.ApproverID = p.UserID

	resp, err := h.leaveService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave status updated to "+string(resp.Status), resp)
}

// History implements LeaveHandler.
func (h *leaveHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.leaveService.History(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, history)
}

// ListForStage implements LeaveHandler.
func (h *leaveHandlerImpl) ListForStage(w http.ResponseWriter, r *http.Request) {
	requests, err := h.leaveService.ListForStage(r.Context(), chi.URLParam(r, "stage"), chi.URLParam(r, "view"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

// GetMyBalance implements LeaveHandler.
func (h *leaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := h.leaveService.GetBalance(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, balance)
}
