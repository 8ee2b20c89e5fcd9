package message

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/core/events"
	"github.com/itcentralng/dhf-hrapp-backend/internal/user"
	"github.com/itcentralng/dhf-hrapp-backend/internal/workflow"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestMessage(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Message Module Suite")
}

// Mock Repository for testing
type mockMessageRepository struct {
	messages   map[int64]*Message
	recipients map[int64]map[int64]bool // messageID -> set of recipient IDs
	comments   []*Comment
	nextID     int64
}

func newMockMessageRepository() *mockMessageRepository {
	return &mockMessageRepository{
		messages:   make(map[int64]*Message),
		recipients: make(map[int64]map[int64]bool),
		nextID:     1,
	}
}

func (m *mockMessageRepository) Create(msg *Message, recipientIDs []int64) error {
	msg.ID = m.nextID
	m.nextID++
	m.messages[msg.ID] = msg
	m.recipients[msg.ID] = make(map[int64]bool)
	for _, id := range recipientIDs {
		m.recipients[msg.ID][id] = true
	}
	return nil
}

func (m *mockMessageRepository) GetByID(id int64) (*Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, internal.ErrMessageNotFound
}

func (m *mockMessageRepository) GetInbox(userID int64) ([]*Message, error) {
	var out []*Message
	for id, msg := range m.messages {
		if m.recipients[id][userID] {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepository) GetOutbox(userID int64) ([]*Message, error) {
	var out []*Message
	for _, msg := range m.messages {
		if msg.SenderID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepository) GetByType(messageType string) ([]*Message, error) {
	var out []*Message
	for _, msg := range m.messages {
		if msg.Type == messageType {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepository) AddRecipients(messageID int64, recipientIDs []int64) error {
	set, ok := m.recipients[messageID]
	if !ok {
		return internal.ErrMessageNotFound
	}
	// the unique join constraint makes re-adding a no-op
	for _, id := range recipientIDs {
		set[id] = true
	}
	return nil
}

func (m *mockMessageRepository) IsRecipient(messageID, userID int64) (bool, error) {
	return m.recipients[messageID][userID], nil
}

func (m *mockMessageRepository) UpdateStatus(id int64, expected, status string) error {
	msg, ok := m.messages[id]
	if !ok {
		return internal.ErrMessageNotFound
	}
	if msg.Status != expected {
		return internal.ErrStaleStatus
	}
	msg.Status = status
	return nil
}

func (m *mockMessageRepository) CreateComment(c *Comment) error {
	c.ID = int64(len(m.comments) + 1)
	m.comments = append(m.comments, c)
	return nil
}

// Mock UserDirectory for testing
type mockUserDirectory struct {
	byEmail map[string]*user.User
}

func (m *mockUserDirectory) GetByEmail(email string) (*user.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

// Mock Uploader for testing
type mockUploader struct {
	url        string
	err        error
	lastOwner  string
	callCount  int
	lastUpload []byte
}

func (m *mockUploader) Upload(ctx context.Context, filename, contentType string, data io.Reader, ownerEmail string) (string, error) {
	m.callCount++
	m.lastOwner = ownerEmail
	m.lastUpload, _ = io.ReadAll(data)
	if m.err != nil {
		return "", m.err
	}
	return m.url, nil
}

var _ = ginkgo.Describe("MessageService", func() {
	var (
		service  *Service
		mockRepo *mockMessageRepository
		mockDir  *mockUserDirectory
		uploader *mockUploader
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockMessageRepository()
		mockDir = &mockUserDirectory{byEmail: map[string]*user.User{
			"staff@dhf.ng":  {ID: 1, Email: "staff@dhf.ng"},
			"hos@dhf.ng":    {ID: 2, Email: "hos@dhf.ng"},
			"admin@dhf.ng":  {ID: 3, Email: "admin@dhf.ng"},
			"hr@dhf.ng":     {ID: 4, Email: "hr@dhf.ng"},
			"second@dhf.ng": {ID: 5, Email: "second@dhf.ng"},
		}}
		uploader = &mockUploader{url: "https://files.dhf.ng/doc.pdf"}
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, mockDir, uploader, events.NewEventBus(slogger), slogger)
	})

	ginkgo.Describe("CreateMessage", func() {
		ginkgo.It("should attach every resolved recipient exactly once", func() {
			msg, err := service.CreateMessage(1, CreateMessageDTO{
				Label:      "memo",
				Title:      "Staff meeting",
				Recipients: []string{"hos@dhf.ng", "admin@dhf.ng", "hr@dhf.ng"},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.recipients[msg.ID]).To(gomega.HaveLen(3))
			gomega.Expect(msg.Type).To(gomega.Equal(TypeGeneral))
			gomega.Expect(msg.Status).To(gomega.Equal(StatusPending))
		})

		ginkgo.It("should fail when any recipient email is unknown", func() {
			_, err := service.CreateMessage(1, CreateMessageDTO{
				Label:      "memo",
				Title:      "Staff meeting",
				Recipients: []string{"hos@dhf.ng", "ghost@dhf.ng"},
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeNotFound))
			gomega.Expect(mockRepo.messages).To(gomega.BeEmpty())
		})

		ginkgo.It("should appear in each recipient's inbox and the sender's outbox", func() {
			msg, err := service.CreateMessage(1, CreateMessageDTO{
				Label:      "leave",
				Title:      "Annual leave",
				Type:       TypeLeaveRequest,
				Recipients: []string{"hos@dhf.ng", "admin@dhf.ng"},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			inbox, err := service.GetInbox(2)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(inbox).To(gomega.HaveLen(1))
			gomega.Expect(inbox[0].ID).To(gomega.Equal(msg.ID))

			outbox, err := service.GetOutbox(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(outbox).To(gomega.HaveLen(1))

			empty, err := service.GetInbox(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(empty).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("UploadDocument", func() {
		dto := UploadDocumentDTO{
			Title:      "Contract",
			Label:      "legal",
			Recipients: []string{"hr@dhf.ng"},
		}

		ginkgo.It("should persist the returned URL as a document message", func() {
			msg, err := service.UploadDocument(context.Background(), 1, "staff@dhf.ng", dto,
				"contract.pdf", "application/pdf", strings.NewReader("pdf bytes"))

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(msg.Type).To(gomega.Equal(TypeDocumentUpload))
			gomega.Expect(msg.Status).To(gomega.Equal(StatusDocUpload))
			gomega.Expect(*msg.Document).To(gomega.Equal("https://files.dhf.ng/doc.pdf"))
			gomega.Expect(uploader.lastOwner).To(gomega.Equal("staff@dhf.ng"))
		})

		ginkgo.It("should surface a collaborator failure as an external error", func() {
			uploader.err = errors.New("storage down")

			_, err := service.UploadDocument(context.Background(), 1, "staff@dhf.ng", dto,
				"contract.pdf", "application/pdf", strings.NewReader("pdf bytes"))

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeExternal))
			gomega.Expect(appErr.Message).ToNot(gomega.ContainSubstring("storage down"))
			gomega.Expect(mockRepo.messages).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("CreateComment", func() {
		ginkgo.It("should attach a comment to an existing message", func() {
			msg, err := service.CreateMessage(1, CreateMessageDTO{
				Label: "memo", Title: "t", Recipients: []string{"hos@dhf.ng"},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			c, err := service.CreateComment(2, CreateCommentDTO{MessageID: msg.ID, Text: "noted"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(c.MessageID).To(gomega.Equal(msg.ID))
			gomega.Expect(c.SenderID).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("should fail for a missing message", func() {
			_, err := service.CreateComment(2, CreateCommentDTO{MessageID: 99, Text: "noted"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrMessageNotFound))
		})
	})

	ginkgo.Describe("RespondToLeave", func() {
		var leaveID int64

		ginkgo.BeforeEach(func() {
			msg, err := service.CreateMessage(1, CreateMessageDTO{
				Label:      "leave",
				Title:      "Annual leave",
				Type:       TypeLeaveRequest,
				Recipients: []string{"admin@dhf.ng"},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			leaveID = msg.ID
		})

		ginkgo.It("should let an admin recipient approve", func() {
			msg, err := service.RespondToLeave(3, workflow.RoleAdmin, LeaveResponseDTO{
				MessageID: leaveID, Status: StatusApprove,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(msg.Status).To(gomega.Equal(StatusApprove))
		})

		ginkgo.It("should accept every status in the decision set", func() {
			for _, status := range []string{StatusApprove, StatusDisapprove, StatusApproveWithoutPay} {
				mockRepo.messages[leaveID].Status = StatusPending
				_, err := service.RespondToLeave(3, workflow.RoleAdmin, LeaveResponseDTO{
					MessageID: leaveID, Status: status,
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(mockRepo.messages[leaveID].Status).To(gomega.Equal(status))
			}
		})

		ginkgo.It("should forbid a non-admin caller without mutating the row", func() {
			_, err := service.RespondToLeave(3, workflow.RoleHR, LeaveResponseDTO{
				MessageID: leaveID, Status: StatusApprove,
			})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
			gomega.Expect(mockRepo.messages[leaveID].Status).To(gomega.Equal(StatusPending))
		})

		ginkgo.It("should reject an admin who is not a recipient", func() {
			_, err := service.RespondToLeave(99, workflow.RoleAdmin, LeaveResponseDTO{
				MessageID: leaveID, Status: StatusApprove,
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotRecipient))
			gomega.Expect(mockRepo.messages[leaveID].Status).To(gomega.Equal(StatusPending))
		})

		ginkgo.It("should reject a status outside the decision set", func() {
			_, err := service.RespondToLeave(3, workflow.RoleAdmin, LeaveResponseDTO{
				MessageID: leaveID, Status: "maybe",
			})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})

		ginkgo.It("should reject a second decision on the same request", func() {
			_, err := service.RespondToLeave(3, workflow.RoleAdmin, LeaveResponseDTO{
				MessageID: leaveID, Status: StatusApprove,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RespondToLeave(3, workflow.RoleAdmin, LeaveResponseDTO{
				MessageID: leaveID, Status: StatusDisapprove,
			})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeConflict))
			gomega.Expect(mockRepo.messages[leaveID].Status).To(gomega.Equal(StatusApprove))
		})
	})

	ginkgo.Describe("ViewAllLeaveRequests", func() {
		ginkgo.It("should list only leave requests for hr", func() {
			_, err := service.CreateMessage(1, CreateMessageDTO{
				Label: "memo", Title: "t", Recipients: []string{"hos@dhf.ng"},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.CreateMessage(1, CreateMessageDTO{
				Label: "leave", Title: "Annual leave", Type: TypeLeaveRequest,
				Recipients: []string{"admin@dhf.ng"},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			leaves, err := service.ViewAllLeaveRequests(workflow.RoleHR)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(leaves).To(gomega.HaveLen(1))
			gomega.Expect(leaves[0].Type).To(gomega.Equal(TypeLeaveRequest))
		})

		ginkgo.It("should forbid every other role", func() {
			for _, role := range []string{workflow.RoleAdmin, workflow.RoleHOS, workflow.RoleStaff} {
				_, err := service.ViewAllLeaveRequests(role)
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
			}
		})
	})

	ginkgo.Describe("ShareLeaveRequest", func() {
		var leaveID int64

		ginkgo.BeforeEach(func() {
			msg, err := service.CreateMessage(1, CreateMessageDTO{
				Label: "leave", Title: "Annual leave", Type: TypeLeaveRequest,
				Recipients: []string{"hos@dhf.ng"},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			leaveID = msg.ID
		})

		ginkgo.It("should append recipients without removing existing ones", func() {
			err := service.ShareLeaveRequest(2, workflow.RoleHOS, ShareLeaveRequestDTO{
				MessageID:  leaveID,
				Recipients: []string{"admin@dhf.ng", "hr@dhf.ng"},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.recipients[leaveID]).To(gomega.HaveLen(3))
		})

		ginkgo.It("should be idempotent for an already shared recipient", func() {
			dto := ShareLeaveRequestDTO{MessageID: leaveID, Recipients: []string{"admin@dhf.ng"}}

			gomega.Expect(service.ShareLeaveRequest(2, workflow.RoleHOS, dto)).To(gomega.Succeed())
			gomega.Expect(service.ShareLeaveRequest(2, workflow.RoleHOS, dto)).To(gomega.Succeed())
			gomega.Expect(mockRepo.recipients[leaveID]).To(gomega.HaveLen(2))
		})

		ginkgo.It("should forbid non-hos callers", func() {
			err := service.ShareLeaveRequest(3, workflow.RoleAdmin, ShareLeaveRequestDTO{
				MessageID: leaveID, Recipients: []string{"hr@dhf.ng"},
			})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
		})

		ginkgo.It("should fail for a missing message", func() {
			err := service.ShareLeaveRequest(2, workflow.RoleHOS, ShareLeaveRequestDTO{
				MessageID: 99, Recipients: []string{"hr@dhf.ng"},
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrMessageNotFound))
		})
	})
})
