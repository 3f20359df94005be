package leave_test

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/division"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/headprogram"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/program"
)

// memStore backs every leave repository fake so the fake transactor can
// roll all of them back together.
type memStore struct {
	balances  map[int64]leave.Balance
	requests  []leave.LeaveRequest
	approvers map[int64][]leave.Stage
	types     []leave.LeaveType
	users     map[int64]string
	createErr error
}

func newMemStore() *memStore {
	return &memStore{
		balances:  map[int64]leave.Balance{},
		approvers: map[int64][]leave.Stage{},
		types: []leave.LeaveType{
			{ID: 1, Name: "Sick"},
			{ID: 2, Name: "Permission"},
			{ID: 3, Name: "Maternity"},
			{ID: 4, Name: "Annual", ConsumesAnnual: true},
		},
		users: map[int64]string{},
	}
}

type fakeTx struct{ store *memStore }

func (f fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	balances := maps.Clone(f.store.balances)
	requests := slices.Clone(f.store.requests)
	if err := fn(ctx); err != nil {
		f.store.balances = balances
		f.store.requests = requests
		return err
	}
	return nil
}

type typeRepo struct{ store *memStore }

func (r typeRepo) GetByName(_ context.Context, name string) (leave.LeaveType, error) {
	for _, t := range r.store.types {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (r typeRepo) List(context.Context) ([]leave.LeaveType, error) {
	return r.store.types, nil
}

type balanceRepo struct{ store *memStore }

func (r balanceRepo) Create(_ context.Context, b leave.Balance) error {
	r.store.balances[b.UserID] = b
	return nil
}

func (r balanceRepo) GetByUserID(_ context.Context, userID int64) (leave.Balance, error) {
	b, ok := r.store.balances[userID]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r balanceRepo) Deduct(_ context.Context, userID int64, days int) (leave.Balance, error) {
	b, ok := r.store.balances[userID]
	if !ok || b.AnnualUsed+days > b.AnnualBalance {
		return leave.Balance{}, leave.ErrAnnualLimitReached
	}
	b.AnnualUsed += days
	r.store.balances[userID] = b
	return b, nil
}

func (r balanceRepo) SetEntitlement(_ context.Context, userID int64, annual int) error {
	b := r.store.balances[userID]
	b.UserID = userID
	b.AnnualBalance = annual
	b.AnnualUsed = min(b.AnnualUsed, annual)
	r.store.balances[userID] = b
	return nil
}

type requestRepo struct{ store *memStore }

func (r requestRepo) Create(_ context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	if r.store.createErr != nil {
		return leave.LeaveRequest{}, r.store.createErr
	}
	req.ID = int64(len(r.store.requests) + 1)
	req.CreatedAt = time.Now()
	r.store.requests = append(r.store.requests, req)
	return req, nil
}

func (r requestRepo) join(req leave.LeaveRequest) leave.LeaveRequest {
	req.UserName = r.store.users[req.UserID]
	for _, t := range r.store.types {
		if t.ID == req.LeaveTypeID {
			req.LeaveTypeName = t.Name
		}
	}
	return req
}

func (r requestRepo) GetByID(_ context.Context, id int64) (leave.LeaveRequest, error) {
	for _, req := range r.store.requests {
		if req.ID == id {
			return r.join(req), nil
		}
	}
	return leave.LeaveRequest{}, leave.ErrLeaveNotFoundOrProcessed
}

func (r requestRepo) List(_ context.Context, f leave.Filter) ([]leave.LeaveRequest, error) {
	out := []leave.LeaveRequest{}
	for _, req := range r.store.requests {
		if f.UserID != nil && req.UserID != *f.UserID {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, req.Status) {
			continue
		}
		if f.ApproverStage != nil && (req.ApproverStage == nil || *req.ApproverStage != *f.ApproverStage) {
			continue
		}
		out = append(out, r.join(req))
	}
	return out, nil
}

func (r requestRepo) Transition(_ context.Context, id int64, from, to leave.Status, approverID int64, stage leave.Stage) error {
	for i, req := range r.store.requests {
		if req.ID == id && req.Status == from {
			r.store.requests[i].Status = to
			r.store.requests[i].ApproverID = &approverID
			r.store.requests[i].ApproverStage = &stage
			return nil
		}
	}
	return leave.ErrLeaveNotFoundOrProcessed
}

type approverRepo struct{ store *memStore }

func (r approverRepo) IsApprover(_ context.Context, userID int64, stage leave.Stage) (bool, error) {
	return slices.Contains(r.store.approvers[userID], stage), nil
}

type programRepo struct{}

func (programRepo) EnsureByName(context.Context, string) (program.Program, error) {
	return program.Program{}, errors.New("not used")
}

func (programRepo) GetByName(_ context.Context, name string) (program.Program, error) {
	if name == "Mobile Development" {
		return program.Program{ID: 10, Name: name}, nil
	}
	return program.Program{}, program.ErrProgramNotFound
}

type headProgramRepo struct{}

func (headProgramRepo) Create(context.Context, headprogram.HeadProgram) (headprogram.HeadProgram, error) {
	return headprogram.HeadProgram{}, errors.New("not used")
}

func (headProgramRepo) GetByID(context.Context, int64) (headprogram.HeadProgram, error) {
	return headprogram.HeadProgram{}, headprogram.ErrHeadProgramNotFound
}

func (headProgramRepo) GetByProgramID(_ context.Context, programID int64) (headprogram.HeadProgram, error) {
	if programID == 10 {
		return headprogram.HeadProgram{ID: 20, Name: "Rina"}, nil
	}
	return headprogram.HeadProgram{}, headprogram.ErrHeadProgramNotFound
}

type divisionRepo struct{}

func (divisionRepo) EnsureByName(context.Context, string, *int64) (division.Division, error) {
	return division.Division{}, errors.New("not used")
}

func (divisionRepo) GetByName(_ context.Context, name string) (division.Division, error) {
	if name == "Engineering" {
		return division.Division{ID: 30, Name: name}, nil
	}
	return division.Division{}, division.ErrDivisionNotFound
}

func (divisionRepo) List(context.Context) ([]division.Division, error) {
	return nil, nil
}

type fakeFiles struct {
	uploaded []string
	deleted  []string
}

func (f *fakeFiles) UploadProfilePhoto(context.Context, int64, io.Reader, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeFiles) UploadAttendanceImage(context.Context, int64, time.Time, io.Reader, string, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeFiles) UploadLeaveAttachment(_ context.Context, _ int64, _ io.Reader, filename string) (string, error) {
	p := "leave/" + filename
	f.uploaded = append(f.uploaded, p)
	return p, nil
}

func (f *fakeFiles) DeleteFile(_ context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFiles) GetFileURL(path string) string {
	return "http://files.test/" + path
}
