package message

import (
	"time"

	"github.com/itcentralng/dhf-hrapp-backend/internal/workflow"
)

// Message statuses. The leave decision statuses are the closed set an admin
// may write; doc_upload marks document-upload messages which carry no
// approval chain.
const (
	StatusPending           = "pending"
	StatusApprove           = "approve"
	StatusDisapprove        = "disapprove"
	StatusApproveWithoutPay = "approve-without-pay"
	StatusDocUpload         = "doc_upload"
)

const (
	TypeGeneral        = "general"
	TypeLeaveRequest   = "leave_request"
	TypeDocumentUpload = "document_upload"
)

// LeaveApproval is the single-stage leave decision: an admin recipient moves a
// pending request to one of the three terminal statuses.
var LeaveApproval = workflow.Definition{
	Name: TypeLeaveRequest,
	Stages: []workflow.Stage{
		{
			Name:         "decision",
			RequiredRole: workflow.RoleAdmin,
			AllowedPrior: []string{StatusPending},
			Results:      []string{StatusApprove, StatusDisapprove, StatusApproveWithoutPay},
		},
	},
}

type Message struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	SenderID  int64     `json:"sender_id" gorm:"column:sender_id;not null;index"`
	Label     string    `json:"label" gorm:"not null"`
	Title     string    `json:"title" gorm:"not null"`
	Text      *string   `json:"text,omitempty"`
	Document  *string   `json:"document,omitempty"`
	Type      string    `json:"type" gorm:"index"`
	Status    string    `json:"status" gorm:"not null;default:pending"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Comments   []Comment   `json:"comments" gorm:"foreignKey:MessageID"`
	Recipients []Recipient `json:"recipients,omitempty" gorm:"foreignKey:MessageID"`
}

func (Message) TableName() string {
	return "messages"
}

// Recipient is the message↔user association row. The unique index makes
// re-sharing the same recipient idempotent.
type Recipient struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	MessageID   int64     `json:"message_id" gorm:"uniqueIndex:idx_message_recipient;not null"`
	RecipientID int64     `json:"recipient_id" gorm:"uniqueIndex:idx_message_recipient;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Recipient) TableName() string {
	return "message_recipients"
}

type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"not null"`
	MessageID int64     `json:"message_id" gorm:"not null;index"`
	SenderID  int64     `json:"sender_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

func (m *Message) IsPending() bool {
	return m.Status == StatusPending
}

func (m *Message) IsLeaveRequest() bool {
	return m.Type == TypeLeaveRequest
}
