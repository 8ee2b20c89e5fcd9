package message

import "errors"

// CreateMessageDTO represents the request payload for sending a message.
// Recipients are addressed by email.
type CreateMessageDTO struct {
	Label      string   `json:"label"`
	Title      string   `json:"title"`
	Text       *string  `json:"text,omitempty"`
	Type       string   `json:"type,omitempty"`
	Recipients []string `json:"recipients"`
}

func (dto CreateMessageDTO) Validate() error {
	if dto.Label == "" {
		return errors.New("label is required")
	}
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if len(dto.Recipients) == 0 {
		return errors.New("at least one recipient is required")
	}
	return nil
}

// UploadDocumentDTO carries the form fields accompanying a document upload.
type UploadDocumentDTO struct {
	Title      string
	Label      string
	Text       *string
	Recipients []string
}

func (dto UploadDocumentDTO) Validate() error {
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if dto.Label == "" {
		return errors.New("label is required")
	}
	if len(dto.Recipients) == 0 {
		return errors.New("at least one recipient is required")
	}
	return nil
}

type CreateCommentDTO struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
}

func (dto CreateCommentDTO) Validate() error {
	if dto.MessageID == 0 {
		return errors.New("message_id is required")
	}
	if dto.Text == "" {
		return errors.New("text is required")
	}
	return nil
}

// LeaveResponseDTO is the admin's decision on a pending leave request.
type LeaveResponseDTO struct {
	MessageID int64  `json:"message_id"`
	Status    string `json:"status"`
}

func (dto LeaveResponseDTO) Validate() error {
	if dto.MessageID == 0 {
		return errors.New("message_id is required")
	}
	if dto.Status == "" {
		return errors.New("status is required")
	}
	return nil
}

type ShareLeaveRequestDTO struct {
	MessageID  int64    `json:"message_id"`
	Recipients []string `json:"recipients"`
}

func (dto ShareLeaveRequestDTO) Validate() error {
	if dto.MessageID == 0 {
		return errors.New("message_id is required")
	}
	if len(dto.Recipients) == 0 {
		return errors.New("at least one recipient is required")
	}
	return nil
}
