package postgres

import (
	"errors"
	"time"

	"github.com/itcentralng/dhf-hrapp-backend/internal"
	"github.com/itcentralng/dhf-hrapp-backend/internal/message"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository implements the message.Repository interface using GORM
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) message.Repository {
	return &MessageRepository{db: db}
}

// Create inserts the message and its recipient rows in one transaction.
func (r *MessageRepository) Create(msg *message.Message, recipientIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		for _, recipientID := range recipientIDs {
			rec := &message.Recipient{
				MessageID:   msg.ID,
				RecipientID: recipientID,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MessageRepository) GetByID(id int64) (*message.Message, error) {
	var msg message.Message
	err := r.db.Preload("Comments").Preload("Recipients").Where("id = ?", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepository) GetInbox(userID int64) ([]*message.Message, error) {
	var messages []*message.Message
	err := r.db.Preload("Comments").
		Joins("JOIN message_recipients ON message_recipients.message_id = messages.id").
		Where("message_recipients.recipient_id = ?", userID).
		Order("messages.created_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) GetOutbox(userID int64) ([]*message.Message, error) {
	var messages []*message.Message
	err := r.db.Preload("Comments").
		Where("sender_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) GetByType(messageType string) ([]*message.Message, error) {
	var messages []*message.Message
	err := r.db.Preload("Comments").
		Where("type = ?", messageType).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// AddRecipients appends recipients; the unique index plus conflict-ignore
// makes re-adding an existing recipient a no-op.
func (r *MessageRepository) AddRecipients(messageID int64, recipientIDs []int64) error {
	for _, recipientID := range recipientIDs {
		rec := &message.Recipient{
			MessageID:   messageID,
			RecipientID: recipientID,
		}
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(rec).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *MessageRepository) IsRecipient(messageID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&message.Recipient{}).
		Where("message_id = ? AND recipient_id = ?", messageID, userID).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatus guards the write with the expected prior status so two racing
// responders cannot both win.
func (r *MessageRepository) UpdateStatus(id int64, expected, status string) error {
	result := r.db.Model(&message.Message{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrStaleStatus
	}
	return nil
}

func (r *MessageRepository) CreateComment(c *message.Comment) error {
	return r.db.Create(c).Error
}
