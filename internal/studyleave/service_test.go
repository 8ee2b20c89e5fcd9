package studyleave

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

func TestStudyLeave(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "StudyLeave Module Suite")
}

// Mock Repository for testing
type mockStudyLeaveRepository struct {
	leaves map[int64]*StudyLeave
	nextID int64
}

func newMockStudyLeaveRepository() *mockStudyLeaveRepository {
	return &mockStudyLeaveRepository{
		leaves: make(map[int64]*StudyLeave),
		nextID: 1,
	}
}

func (m *mockStudyLeaveRepository) Create(sl *StudyLeave) error {
	sl.ID = m.nextID
	m.nextID++
	m.leaves[sl.ID] = sl
	return nil
}

func (m *mockStudyLeaveRepository) GetByID(id int64) (*StudyLeave, error) {
	if sl, ok := m.leaves[id]; ok {
		copied := *sl
		return &copied, nil
	}
	return nil, internal.ErrStudyLeaveNotFound
}

func (m *mockStudyLeaveRepository) GetByStaffID(staffID int64) ([]*StudyLeave, error) {
	var out []*StudyLeave
	for _, sl := range m.leaves {
		if sl.StaffID == staffID {
			out = append(out, sl)
		}
	}
	return out, nil
}

func (m *mockStudyLeaveRepository) GetAll() ([]*StudyLeave, error) {
	var out []*StudyLeave
	for _, sl := range m.leaves {
		out = append(out, sl)
	}
	return out, nil
}

func (m *mockStudyLeaveRepository) UpdateStageResponse(id int64, stage, expected, resulting string, resp StageResponse) error {
	sl, ok := m.leaves[id]
	if !ok {
		return internal.ErrStudyLeaveNotFound
	}
	if sl.Status != expected {
		return internal.ErrStaleStatus
	}
	sl.Status = resulting
	switch stage {
	case StageHOS:
		sl.HOSStatus = &resp.Decision
		sl.HOSRespondedBy = &resp.ResponderID
	case StageAccountant:
		sl.AccountantStatus = &resp.Decision
		sl.AccountantRespondedBy = &resp.ResponderID
	case StageHR:
		sl.HRStatus = &resp.Decision
		sl.HRRespondedBy = &resp.ResponderID
	case StageDirector:
		sl.DirectorStatus = &resp.Decision
		sl.DirectorRespondedBy = &resp.ResponderID
	}
	return nil
}

var _ = ginkgo.Describe("StudyLeaveService", func() {
	var (
		service  *Service
		mockRepo *mockStudyLeaveRepository
	)

	submitDTO := SubmitDTO{
		Institution: "Ahmadu Bello University",
		Course:      "MSc Public Health",
		StartDate:   "2026-10-01",
		EndDate:     "2027-09-30",
	}
	approve := StageResponseDTO{Decision: DecisionApprove}

	ginkgo.BeforeEach(func() {
		mockRepo = newMockStudyLeaveRepository()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, events.NewEventBus(slogger), slogger)
	})

	ginkgo.Describe("Submit", func() {
		ginkgo.It("should create a pending application for staff", func() {
			sl, err := service.Submit(1, workflow.RoleStaff, submitDTO)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sl.Status).To(gomega.Equal(StatusPending))
			gomega.Expect(sl.Institution).To(gomega.Equal("Ahmadu Bello University"))
		})

		ginkgo.It("should forbid non-staff callers", func() {
			_, err := service.Submit(1, workflow.RoleHOS, submitDTO)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
		})

		ginkgo.It("should reject an end date before the start date", func() {
			bad := submitDTO
			bad.EndDate = "2026-09-01"
			_, err := service.Submit(1, workflow.RoleStaff, bad)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})
	})

	ginkgo.Describe("Respond", func() {
		var id int64

		ginkgo.BeforeEach(func() {
			sl, err := service.Submit(1, workflow.RoleStaff, submitDTO)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			id = sl.ID
		})

		ginkgo.It("should walk the hos, accountant, hr, director chain", func() {
			sl, err := service.Respond(StageHOS, 2, workflow.RoleHOS, id, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sl.Status).To(gomega.Equal(StatusHOSResponded))

			sl, err = service.Respond(StageAccountant, 3, workflow.RoleAdmin, id, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sl.Status).To(gomega.Equal(StatusAccountantResponded))

			sl, err = service.Respond(StageHR, 4, workflow.RoleHR, id, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sl.Status).To(gomega.Equal(StatusHRResponded))

			sl, err = service.Respond(StageDirector, 5, workflow.RoleAdmin, id, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sl.Status).To(gomega.Equal(StatusDirectorResponded))
			gomega.Expect(sl.IsFullyResponded()).To(gomega.BeTrue())
			gomega.Expect(*sl.AccountantRespondedBy).To(gomega.Equal(int64(3)))
		})

		ginkgo.It("should reject the accountant stage before the hos stage", func() {
			_, err := service.Respond(StageAccountant, 3, workflow.RoleAdmin, id, approve)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrStageOutOfOrder))
		})

		ginkgo.It("should reject the director stage before the hr stage", func() {
			_, err := service.Respond(StageHOS, 2, workflow.RoleHOS, id, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Respond(StageAccountant, 3, workflow.RoleAdmin, id, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Respond(StageDirector, 5, workflow.RoleAdmin, id, approve)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrStageOutOfOrder))
		})

		ginkgo.It("should require the admin role on the accountant stage", func() {
			_, err := service.Respond(StageHOS, 2, workflow.RoleHOS, id, approve)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Respond(StageAccountant, 4, workflow.RoleHR, id, approve)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
			gomega.Expect(appErr.Message).To(gomega.ContainSubstring("must be admin"))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should scope staff to their own applications", func() {
			_, err := service.Submit(1, workflow.RoleStaff, submitDTO)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Submit(2, workflow.RoleStaff, submitDTO)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			own, err := service.List(2, workflow.RoleStaff)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(own).To(gomega.HaveLen(1))

			all, err := service.List(9, workflow.RoleAdmin)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(all).To(gomega.HaveLen(2))
		})
	})
})
