package earlyclosure

import (
	"log/slog"
	"os"
	"testing"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/core/events"
	"github.com/itcentralng/dhf-hrapp-backend/internal/workflow"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestEarlyClosure(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "EarlyClosure Module Suite")
}

// Mock Repository for testing
type mockEarlyClosureRepository struct {
	closures map[int64]*EarlyClosure
	nextID   int64
}

func newMockEarlyClosureRepository() *mockEarlyClosureRepository {
	return &mockEarlyClosureRepository{
		closures: make(map[int64]*EarlyClosure),
		nextID:   1,
	}
}

func (m *mockEarlyClosureRepository) Create(ec *EarlyClosure) error {
	ec.ID = m.nextID
	m.nextID++
	m.closures[ec.ID] = ec
	return nil
}

func (m *mockEarlyClosureRepository) GetByID(id int64) (*EarlyClosure, error) {
	if ec, ok := m.closures[id]; ok {
		copied := *ec
		return &copied, nil
	}
	return nil, internal.ErrEarlyClosureNotFound
}

func (m *mockEarlyClosureRepository) GetByStaffID(staffID int64) ([]*EarlyClosure, error) {
	var out []*EarlyClosure
	for _, ec := range m.closures {
		if ec.StaffID == staffID {
			out = append(out, ec)
		}
	}
	return out, nil
}

func (m *mockEarlyClosureRepository) GetAll() ([]*EarlyClosure, error) {
	var out []*EarlyClosure
	for _, ec := range m.closures {
		out = append(out, ec)
	}
	return out, nil
}

func (m *mockEarlyClosureRepository) UpdateStageResponse(id int64, stage, expected, resulting string, resp StageResponse) error {
	ec, ok := m.closures[id]
	if !ok {
		return internal.ErrEarlyClosureNotFound
	}
	if ec.Status != expected {
		return internal.ErrStaleStatus
	}
	ec.Status = resulting
	switch stage {
	case StageHOS:
		ec.HOSStatus = &resp.Decision
		ec.HOSComment = resp.Comment
		ec.HOSRespondedBy = &resp.ResponderID
		ec.HOSRespondedAt = &resp.RespondedAt
	case StageHR:
		ec.HRStatus = &resp.Decision
		ec.HRComment = resp.Comment
		ec.HRRespondedBy = &resp.ResponderID
		ec.HRRespondedAt = &resp.RespondedAt
	case StageDirector:
		ec.DirectorStatus = &resp.Decision
		ec.DirectorComment = resp.Comment
		ec.DirectorRespondedBy = &resp.ResponderID
		ec.DirectorRespondedAt = &resp.RespondedAt
	}
	return nil
}

var _ = ginkgo.Describe("EarlyClosureService", func() {
	var (
		service  *Service
		mockRepo *mockEarlyClosureRepository
	)

	submitDTO := SubmitDTO{
		Reason:      "family emergency",
		ClosureDate: "2026-09-01",
		ClosureTime: "14:00",
	}
	approve := StageResponseDTO{Decision: DecisionApprove}

	ginkgo.BeforeEach(func() {
		mockRepo = newMockEarlyClosureRepository()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, events.NewEventBus(slogger), slogger)
	})

	ginkgo.Describe("Submit", func() {
		ginkgo.It("should create a pending request for staff", func() {
			ec, err := service.Submit(1, workflow.RoleStaff, submitDTO)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ec.Status).To(gomega.Equal(StatusPending))
			gomega.Expect(ec.StaffID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should forbid non-staff callers", func() {
			for _, role := range []string{workflow.RoleAdmin, workflow.RoleHR, workflow.RoleHOS} {
				_, err := service.Submit(1, role, submitDTO)
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
			}
		})

		ginkgo.It("should reject a malformed closure date", func() {
			bad := submitDTO
			bad.ClosureDate = "next tuesday"
			_, err := service.Submit(1, workflow.RoleStaff, bad)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})
	})

	ginkgo.Describe("Respond", func() {
		var id int64

		ginkgo.BeforeEach(func() {
			ec, err := service.Submit(1, workflow.RoleStaff, submitDTO)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			id = ec.ID
		})

		ginkgo.It("should walk the full hos, hr, director chain", func() {
			ec, err := service.Respond(StageHOS, 2, workflow.RoleHOS, id, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ec.Status).To(gomega.Equal(StatusHOSResponded))

			ec, err = service.Respond(StageHR, 3, workflow.RoleHR, id, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ec.Status).To(gomega.Equal(StatusHRResponded))

			ec, err = service.Respond(StageDirector, 4, workflow.RoleAdmin, id, StageResponseDTO{Decision: DecisionDisapprove})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ec.Status).To(gomega.Equal(StatusDirectorResponded))
			gomega.Expect(ec.IsFullyResponded()).To(gomega.BeTrue())

			gomega.Expect(*ec.HOSStatus).To(gomega.Equal(DecisionApprove))
			gomega.Expect(*ec.HRStatus).To(gomega.Equal(DecisionApprove))
			gomega.Expect(*ec.DirectorStatus).To(gomega.Equal(DecisionDisapprove))
			gomega.Expect(*ec.DirectorRespondedBy).To(gomega.Equal(int64(4)))
		})

		ginkgo.It("should reject the hr stage before the hos stage", func() {
			_, err := service.Respond(StageHR, 3, workflow.RoleHR, id, approve)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrStageOutOfOrder))
			stored, _ := mockRepo.GetByID(id)
			gomega.Expect(stored.Status).To(gomega.Equal(StatusPending))
			gomega.Expect(stored.HRStatus).To(gomega.BeNil())
		})

		ginkgo.It("should reject the wrong role for a stage", func() {
			_, err := service.Respond(StageHOS, 3, workflow.RoleHR, id, approve)

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
			gomega.Expect(appErr.Message).To(gomega.ContainSubstring("must be hos"))
		})

		ginkgo.It("should reject a repeat response on a completed stage", func() {
			_, err := service.Respond(StageHOS, 2, workflow.RoleHOS, id, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Respond(StageHOS, 2, workflow.RoleHOS, id, approve)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrStageOutOfOrder))
		})

		ginkgo.It("should reject an unknown stage name", func() {
			_, err := service.Respond("accountant", 2, workflow.RoleHOS, id, approve)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})

		ginkgo.It("should fail for a missing record", func() {
			_, err := service.Respond(StageHOS, 2, workflow.RoleHOS, 99, approve)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrEarlyClosureNotFound))
		})
	})

	ginkgo.Describe("GetByID", func() {
		var id int64

		ginkgo.BeforeEach(func() {
			ec, err := service.Submit(1, workflow.RoleStaff, submitDTO)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			id = ec.ID
		})

		ginkgo.It("should let the owner and approvers read it", func() {
			_, err := service.GetByID(1, workflow.RoleStaff, id)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.GetByID(3, workflow.RoleHR, id)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should hide other staff members' requests", func() {
			_, err := service.GetByID(2, workflow.RoleStaff, id)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotRecipient))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.BeforeEach(func() {
			_, err := service.Submit(1, workflow.RoleStaff, submitDTO)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Submit(2, workflow.RoleStaff, submitDTO)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should return only the caller's own requests for staff", func() {
			own, err := service.List(1, workflow.RoleStaff)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(own).To(gomega.HaveLen(1))
		})

		ginkgo.It("should return everything for approvers", func() {
			all, err := service.List(3, workflow.RoleHR)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(all).To(gomega.HaveLen(2))
		})
	})
})
