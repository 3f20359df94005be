package leave_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/division"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/program"
	"github.com/infinite-track/hris-backend-go/internal/pkg/validator"
	leavesvc "github.com/infinite-track/hris-backend-go/internal/service/leave"
)

const (
	employeeID    = int64(7)
	headProgramID = int64(97)
	operationalID = int64(98)
	directorID    = int64(99)
)

// approvers holds one approver per stage.
var approvers = map[string]int64{
	"headprogram":     headProgramID,
	"operational":     operationalID,
	"programdirector": directorID,
}

var _ = Describe("LeaveService", func() {
	var (
		ctx     context.Context
		store   *memStore
		files   *fakeFiles
		service leave.LeaveService
	)

	submission := func(leaveType, start, end string) leave.SubmitRequest {
		return leave.SubmitRequest{
			UserID:         employeeID,
			ProgramName:    "Mobile Development",
			Division:       "Engineering",
			StartDate:      start,
			EndDate:        end,
			LeaveType:      leaveType,
			Description:    "family event",
			Phone:          "081234567890",
			Address:        "Batam",
			Attachment:     strings.NewReader("%PDF-1.4"),
			AttachmentName: "letter.pdf",
			AttachmentSize: 8,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = newMemStore()
		store.users[employeeID] = "Budi"
		store.approvers[headProgramID] = []leave.Stage{leave.StageHeadProgram}
		store.approvers[operationalID] = []leave.Stage{leave.StageOperational}
		store.approvers[directorID] = []leave.Stage{leave.StageProgramDirector}
		store.balances[employeeID] = leave.Balance{UserID: employeeID, AnnualBalance: 12, AnnualUsed: 10}
		files = &fakeFiles{}

		service = leavesvc.NewLeaveService(
			fakeTx{store: store},
			typeRepo{store: store},
			requestRepo{store: store},
			approverRepo{store: store},
			programRepo{},
			headProgramRepo{},
			divisionRepo{},
			leavesvc.NewLedger(balanceRepo{store: store}),
			files,
		)
	})

	Describe("Submit", func() {
		It("deducts annual leave within the remaining balance", func() {
			resp, err := service.Submit(ctx, submission("Annual", "2025-03-10", "2025-03-11"))

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Leave.Status).To(Equal(leave.StatusPending))
			Expect(resp.Leave.TotalDays).To(Equal(2))
			Expect(resp.Leave.UserName).To(Equal("Budi"))
			Expect(resp.Leave.LeaveType).To(Equal("Annual"))
			Expect(resp.Leave.AttachmentURL).NotTo(BeNil())
			Expect(*resp.Leave.AttachmentURL).To(Equal("http://files.test/leave/letter.pdf"))
			Expect(resp.Balance).NotTo(BeNil())
			Expect(resp.Balance.Remaining).To(Equal(0))
			Expect(store.balances[employeeID].AnnualUsed).To(Equal(12))
		})

		It("rejects annual leave past the limit without storing anything", func() {
			_, err := service.Submit(ctx, submission("Annual", "2025-03-10", "2025-03-12"))

			Expect(err).To(MatchError(leave.ErrAnnualLimitReached))
			Expect(store.requests).To(BeEmpty())
			Expect(files.uploaded).To(BeEmpty())
			Expect(store.balances[employeeID].AnnualUsed).To(Equal(10))
		})

		It("does not touch the ledger for non-annual types", func() {
			resp, err := service.Submit(ctx, submission("sick", "2025-03-10", "2025-03-20"))

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Balance).To(BeNil())
			Expect(resp.Leave.TotalDays).To(Equal(11))
			Expect(store.balances[employeeID].AnnualUsed).To(Equal(10))
		})

		It("rolls back the deduction and removes the attachment when the insert fails", func() {
			store.createErr = errors.New("connection reset")

			_, err := service.Submit(ctx, submission("Annual", "2025-03-10", "2025-03-10"))

			Expect(err).To(HaveOccurred())
			Expect(store.balances[employeeID].AnnualUsed).To(Equal(10))
			Expect(files.deleted).To(Equal(files.uploaded))
		})

		It("returns validation errors for a reversed range", func() {
			_, err := service.Submit(ctx, submission("Annual", "2025-03-12", "2025-03-10"))

			var verrs validator.ValidationErrors
			Expect(errors.As(err, &verrs)).To(BeTrue())
			Expect(verrs.ToMap()).To(HaveKey("end_date"))
		})

		DescribeTable("unknown references",
			func(mutate func(*leave.SubmitRequest), want error) {
				req := submission("Annual", "2025-03-10", "2025-03-10")
				mutate(&req)
				_, err := service.Submit(ctx, req)
				Expect(err).To(MatchError(want))
			},
			Entry("program", func(r *leave.SubmitRequest) { r.ProgramName = "Unknown" }, program.ErrProgramNotFound),
			Entry("division", func(r *leave.SubmitRequest) { r.Division = "Unknown" }, division.ErrDivisionNotFound),
			Entry("leave type", func(r *leave.SubmitRequest) { r.LeaveType = "Sabbatical" }, leave.ErrLeaveTypeNotFound),
		)
	})

	Describe("Decide", func() {
		var leaveID int64

		BeforeEach(func() {
			resp, err := service.Submit(ctx, submission("Permission", "2025-04-01", "2025-04-01"))
			Expect(err).NotTo(HaveOccurred())
			leaveID = resp.Leave.ID
		})

		decideAs := func(approverID int64, stage, status string) (leave.DecisionResponse, error) {
			return service.Decide(ctx, leave.DecisionRequest{
				LeaveID:        leaveID,
				Stage:          stage,
				ApproverID:     approverID,
				ApprovalStatus: status,
			})
		}

		decide := func(stage, status string) (leave.DecisionResponse, error) {
			approverID, ok := approvers[stage]
			if !ok {
				approverID = headProgramID
			}
			return decideAs(approverID, stage, status)
		}

		It("walks the whole approval chain", func() {
			resp, err := decide("headprogram", "approved")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(leave.StatusApprovedByHeadProgram))

			resp, err = decide("operational", "Approved")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(leave.StatusApprovedByOperational))

			resp, err = decide("programdirector", "approved")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(leave.StatusApprovedByProgramDirector))
			Expect(resp.Stage).To(Equal(leave.StageProgramDirector))
		})

		It("records the declining stage", func() {
			_, err := decide("headprogram", "declined")
			Expect(err).NotTo(HaveOccurred())

			Expect(store.requests[0].Status).To(Equal(leave.StatusDeclined))
			Expect(*store.requests[0].ApproverStage).To(Equal(leave.StageHeadProgram))
			Expect(*store.requests[0].ApproverID).To(Equal(headProgramID))
		})

		It("refuses a stage out of order", func() {
			_, err := decide("operational", "approved")
			Expect(err).To(MatchError(leave.ErrLeaveNotFoundOrProcessed))
			Expect(store.requests[0].Status).To(Equal(leave.StatusPending))
		})

		It("refuses approving the same stage twice", func() {
			resp, err := decide("headprogram", "approved")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(leave.StatusApprovedByHeadProgram))

			_, err = decide("headprogram", "approved")
			Expect(err).To(MatchError(leave.ErrLeaveNotFoundOrProcessed))
			Expect(store.requests[0].Status).To(Equal(leave.StatusApprovedByHeadProgram))
		})

		It("refuses a request already processed at that stage", func() {
			_, err := decide("headprogram", "declined")
			Expect(err).NotTo(HaveOccurred())

			_, err = decide("headprogram", "approved")
			Expect(err).To(MatchError(leave.ErrLeaveNotFoundOrProcessed))
		})

		It("rejects an invalid action", func() {
			_, err := decide("headprogram", "maybe")
			Expect(err).To(MatchError(leave.ErrInvalidApprovalAction))
		})

		It("rejects an unknown stage", func() {
			_, err := decide("ceo", "approved")
			Expect(err).To(MatchError(leave.ErrInvalidStage))
		})

		It("rejects approvers acting at another stage", func() {
			_, err := decideAs(operationalID, "headprogram", "approved")
			Expect(err).To(MatchError(leave.ErrNotApprover))
			Expect(store.requests[0].Status).To(Equal(leave.StatusPending))

			_, err = decideAs(headProgramID, "headprogram", "approved")
			Expect(err).NotTo(HaveOccurred())

			_, err = decideAs(headProgramID, "operational", "approved")
			Expect(err).To(MatchError(leave.ErrNotApprover))
			_, err = decideAs(directorID, "operational", "approved")
			Expect(err).To(MatchError(leave.ErrNotApprover))
			Expect(store.requests[0].Status).To(Equal(leave.StatusApprovedByHeadProgram))
		})

		It("rejects users who are not approvers", func() {
			_, err := service.Decide(ctx, leave.DecisionRequest{
				LeaveID:        leaveID,
				Stage:          "headprogram",
				ApproverID:     employeeID,
				ApprovalStatus: "approved",
			})
			Expect(err).To(MatchError(leave.ErrNotApprover))
			Expect(store.requests[0].Status).To(Equal(leave.StatusPending))
		})
	})

	Describe("ListForStage", func() {
		BeforeEach(func() {
			for range 3 {
				_, err := service.Submit(ctx, submission("Permission", "2025-05-01", "2025-05-02"))
				Expect(err).NotTo(HaveOccurred())
			}
			// 1: fully through head program and operational, 2: declined by head program, 3: pending
			for _, step := range []struct {
				id     int64
				stage  string
				action string
			}{
				{1, "headprogram", "approved"},
				{1, "operational", "approved"},
				{2, "headprogram", "declined"},
			} {
				_, err := service.Decide(ctx, leave.DecisionRequest{
					LeaveID: step.id, Stage: step.stage, ApproverID: approvers[step.stage], ApprovalStatus: step.action,
				})
				Expect(err).NotTo(HaveOccurred())
			}
		})

		ids := func(responses []leave.LeaveResponse) []int64 {
			out := make([]int64, 0, len(responses))
			for _, r := range responses {
				out = append(out, r.ID)
			}
			return out
		}

		It("lists requests waiting on the stage", func() {
			got, err := service.ListForStage(ctx, "headprogram", "assigned")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(got)).To(ConsistOf(int64(3)))

			got, err = service.ListForStage(ctx, "programdirector", "assigned")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(got)).To(ConsistOf(int64(1)))
		})

		It("lists requests declined at the stage only", func() {
			got, err := service.ListForStage(ctx, "headprogram", "declined")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(got)).To(ConsistOf(int64(2)))

			got, err = service.ListForStage(ctx, "operational", "declined")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		})

		It("relabels approved requests", func() {
			got, err := service.ListForStage(ctx, "headprogram", "approved")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(got)).To(ConsistOf(int64(1)))
			Expect(got[0].Status).To(Equal(leave.StatusApprovedLabel))
		})

		It("rejects an unknown view", func() {
			_, err := service.ListForStage(ctx, "headprogram", "archived")
			Expect(err).To(MatchError(leave.ErrInvalidView))
		})

		It("returns every request in the history", func() {
			got, err := service.History(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(3))
		})
	})

	Describe("GetBalance", func() {
		It("reports the remaining days", func() {
			got, err := service.GetBalance(ctx, employeeID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(leave.BalanceResponse{AnnualBalance: 12, AnnualUsed: 10, Remaining: 2}))
		})

		It("fails for users without a ledger row", func() {
			_, err := service.GetBalance(ctx, 404)
			Expect(err).To(MatchError(leave.ErrBalanceNotFound))
		})
	})
})
