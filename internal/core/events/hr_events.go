package events

// Event types published by the HR services. The notification subscriber keys
// off these names.
const (
	MessageCreated   = "message.created"
	MessageCommented = "message.commented"

	LeaveResponded = "leave.responded"
	LeaveShared    = "leave.shared"

	EarlyClosureSubmitted = "earlyclosure.submitted"
	EarlyClosureResponded = "earlyclosure.responded"

	StudyLeaveSubmitted = "studyleave.submitted"
	StudyLeaveResponded = "studyleave.responded"

	EvaluationSubmitted = "evaluation.submitted"
)

func NewMessageCreated(messageID, senderID int64, recipientIDs []int64, messageType string) BaseEvent {
	return NewBaseEvent(MessageCreated, map[string]interface{}{
		"message_id":    messageID,
		"sender_id":     senderID,
		"recipient_ids": recipientIDs,
		"message_type":  messageType,
	})
}

func NewMessageCommented(messageID, senderID int64) BaseEvent {
	return NewBaseEvent(MessageCommented, map[string]interface{}{
		"message_id": messageID,
		"sender_id":  senderID,
	})
}

func NewLeaveResponded(messageID, responderID int64, status string) BaseEvent {
	return NewBaseEvent(LeaveResponded, map[string]interface{}{
		"message_id":   messageID,
		"responder_id": responderID,
		"status":       status,
	})
}

func NewLeaveShared(messageID, sharerID int64, recipientIDs []int64) BaseEvent {
	return NewBaseEvent(LeaveShared, map[string]interface{}{
		"message_id":    messageID,
		"sharer_id":     sharerID,
		"recipient_ids": recipientIDs,
	})
}

func NewStageEvent(eventType string, recordID, responderID int64, stage, status string) BaseEvent {
	return NewBaseEvent(eventType, map[string]interface{}{
		"record_id":    recordID,
		"responder_id": responderID,
		"stage":        stage,
		"status":       status,
	})
}

func NewEvaluationSubmitted(evaluationID, staffID, evaluatorID int64) BaseEvent {
	return NewBaseEvent(EvaluationSubmitted, map[string]interface{}{
		"evaluation_id": evaluationID,
		"staff_id":      staffID,
		"evaluator_id":  evaluatorID,
	})
}
