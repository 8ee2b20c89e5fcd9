package message

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/core/events"
	"github.com/itcentralng/dhf-hrapp-backend/internal/user"
	"github.com/itcentralng/dhf-hrapp-backend/internal/workflow"
)

// Repository defines the data access methods for messages, recipients and
// comments.
type Repository interface {
	Create(msg *Message, recipientIDs []int64) error
	GetByID(id int64) (*Message, error)
	GetInbox(userID int64) ([]*Message, error)
	GetOutbox(userID int64) ([]*Message, error)
	GetByType(messageType string) ([]*Message, error)
	AddRecipients(messageID int64, recipientIDs []int64) error
	IsRecipient(messageID, userID int64) (bool, error)
	// UpdateStatus writes the new status only while the row still holds the
	// expected one; a stale read loses the race and gets ErrStaleStatus.
	UpdateStatus(id int64, expected, status string) error
	CreateComment(c *Comment) error
}

// UserDirectory resolves recipient emails to users.
type UserDirectory interface {
	GetByEmail(email string) (*user.User, error)
}

// Uploader is the external document-storage collaborator.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data io.Reader, ownerEmail string) (string, error)
}

type Service struct {
	repo     Repository
	users    UserDirectory
	uploader Uploader
	bus      *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, users UserDirectory, uploader Uploader, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		uploader: uploader,
		bus:      bus,
		logger:   logger,
	}
}

func (s *Service) resolveRecipients(emails []string) ([]int64, error) {
	ids := make([]int64, 0, len(emails))
	for _, email := range emails {
		u, err := s.users.GetByEmail(email)
		if err != nil {
			s.logger.Warn("recipient does not exist", "email", email)
			return nil, internal.ErrRecipientNotFound.WithDetails(map[string]string{"email": email})
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// CreateMessage inserts a message and attaches every resolved recipient.
func (s *Service) CreateMessage(senderID int64, dto CreateMessageDTO) (*Message, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	recipientIDs, err := s.resolveRecipients(dto.Recipients)
	if err != nil {
		return nil, err
	}

	messageType := dto.Type
	if messageType == "" {
		messageType = TypeGeneral
	}

	msg := &Message{
		SenderID: senderID,
		Label:    dto.Label,
		Title:    dto.Title,
		Text:     dto.Text,
		Type:     messageType,
		Status:   StatusPending,
	}

	if err := s.repo.Create(msg, recipientIDs); err != nil {
		s.logger.Error("failed to create message", "error", err, "sender_id", senderID)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewMessageCreated(msg.ID, senderID, recipientIDs, messageType))

	s.logger.Info("message created", "message_id", msg.ID, "sender_id", senderID, "recipients", len(recipientIDs))
	return msg, nil
}

// UploadDocument stores the document bytes with the external collaborator and
// persists the returned URL as a document-upload message.
func (s *Service) UploadDocument(ctx context.Context, senderID int64, senderEmail string, dto UploadDocumentDTO, filename, contentType string, data io.Reader) (*Message, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	recipientIDs, err := s.resolveRecipients(dto.Recipients)
	if err != nil {
		return nil, err
	}

	docURL, err := s.uploader.Upload(ctx, filename, contentType, data, senderEmail)
	if err != nil {
		s.logger.Error("document upload failed", "error", err, "sender_id", senderID)
		return nil, internal.NewExternalError("document upload failed", internal.ErrCodeUploadFailed, err)
	}

	msg := &Message{
		SenderID: senderID,
		Label:    dto.Label,
		Title:    dto.Title,
		Text:     dto.Text,
		Document: &docURL,
		Type:     TypeDocumentUpload,
		Status:   StatusDocUpload,
	}

	if err := s.repo.Create(msg, recipientIDs); err != nil {
		s.logger.Error("failed to persist document message", "error", err, "sender_id", senderID)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewMessageCreated(msg.ID, senderID, recipientIDs, TypeDocumentUpload))

	s.logger.Info("document sent", "message_id", msg.ID, "sender_id", senderID)
	return msg, nil
}

func (s *Service) CreateComment(senderID int64, dto CreateCommentDTO) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetByID(dto.MessageID); err != nil {
		return nil, err
	}

	c := &Comment{
		Text:      dto.Text,
		MessageID: dto.MessageID,
		SenderID:  senderID,
	}

	if err := s.repo.CreateComment(c); err != nil {
		s.logger.Error("failed to create comment", "error", err, "message_id", dto.MessageID)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewMessageCommented(dto.MessageID, senderID))
	return c, nil
}

func (s *Service) GetInbox(userID int64) ([]*Message, error) {
	return s.repo.GetInbox(userID)
}

func (s *Service) GetOutbox(userID int64) ([]*Message, error) {
	return s.repo.GetOutbox(userID)
}

// RespondToLeave applies the admin's decision to a pending leave request. The
// caller must hold the stage's role, be among the message's recipients, and
// request a status in the closed decision set; any other combination fails
// without mutating the row.
func (s *Service) RespondToLeave(callerID int64, callerRole string, dto LeaveResponseDTO) (*Message, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	stage, err := LeaveApproval.Stage("decision")
	if err != nil {
		return nil, internal.NewInternalError("leave workflow misconfigured", err)
	}

	msg, err := s.repo.GetByID(dto.MessageID)
	if err != nil {
		return nil, err
	}

	if err := stage.Check(callerRole, msg.Status, dto.Status); err != nil {
		return nil, s.mapStageError(err, stage)
	}

	isRecipient, err := s.repo.IsRecipient(msg.ID, callerID)
	if err != nil {
		return nil, err
	}
	if !isRecipient {
		s.logger.Warn("leave response from non-recipient", "message_id", msg.ID, "caller_id", callerID)
		return nil, internal.ErrNotRecipient
	}

	if err := s.repo.UpdateStatus(msg.ID, StatusPending, dto.Status); err != nil {
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewLeaveResponded(msg.ID, callerID, dto.Status))

	s.logger.Info("leave request responded", "message_id", msg.ID, "status", dto.Status, "responder_id", callerID)
	return s.repo.GetByID(msg.ID)
}

// ViewAllLeaveRequests lists every leave request; hr only.
func (s *Service) ViewAllLeaveRequests(callerRole string) ([]*Message, error) {
	if callerRole != workflow.RoleHR {
		return nil, internal.MustBeRole(workflow.RoleHR)
	}
	return s.repo.GetByType(TypeLeaveRequest)
}

// ShareLeaveRequest forwards a leave request to additional recipients without
// removing existing ones; hos only. Re-sharing an existing recipient is a
// no-op thanks to the join table's uniqueness.
func (s *Service) ShareLeaveRequest(callerID int64, callerRole string, dto ShareLeaveRequestDTO) error {
	if callerRole != workflow.RoleHOS {
		return internal.MustBeRole(workflow.RoleHOS)
	}

	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetByID(dto.MessageID); err != nil {
		return err
	}

	recipientIDs, err := s.resolveRecipients(dto.Recipients)
	if err != nil {
		return err
	}

	if err := s.repo.AddRecipients(dto.MessageID, recipientIDs); err != nil {
		s.logger.Error("failed to share leave request", "error", err, "message_id", dto.MessageID)
		return err
	}

	s.bus.Publish(context.Background(), events.NewLeaveShared(dto.MessageID, callerID, recipientIDs))

	s.logger.Info("leave request shared", "message_id", dto.MessageID, "sharer_id", callerID, "recipients", len(recipientIDs))
	return nil
}

func (s *Service) mapStageError(err error, stage workflow.Stage) error {
	switch {
	case errors.Is(err, workflow.ErrRoleNotAllowed):
		return internal.MustBeRole(stage.RequiredRole)
	case errors.Is(err, workflow.ErrOutOfOrder):
		return internal.NewConflictError("leave request is not pending", internal.ErrCodeStaleStatus)
	case errors.Is(err, workflow.ErrInvalidStatus):
		return internal.NewValidationError("invalid status response", internal.ErrCodeInvalidStatus)
	default:
		return internal.NewInternalError("stage check failed", err)
	}
}
