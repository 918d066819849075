package sqlite

import (
	"context"

	"github.com/bharatgram/server/internal/core/domain"
	"gorm.io/gorm"
)

// MessageRepository implements port.MessageRepository on gorm.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, chatID domain.ChatID, senderID domain.UserID, text string) (*domain.Message, error) {
	msg, err := domain.NewMessage(chatID, senderID, text)
	if err != nil {
		return nil, err
	}

	rec := messageRecord{
		ID:        msg.ID.String(),
		ChatID:    msg.ChatID.String(),
		SenderID:  msg.SenderID.String(),
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *MessageRepository) ListByChat(ctx context.Context, chatID domain.ChatID, limit int) ([]domain.Message, error) {
	var recs []messageRecord
	q := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID.String()).
		Order("created_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}

	msgs := make([]domain.Message, 0, len(recs))
	for _, rec := range recs {
		msg, err := toMessage(rec)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func toMessage(rec messageRecord) (domain.Message, error) {
	id, err := domain.ParseMessageID(rec.ID)
	if err != nil {
		return domain.Message{}, err
	}
	chatID, err := domain.ParseChatID(rec.ChatID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        id,
		ChatID:    chatID,
		SenderID:  domain.UserID(rec.SenderID),
		Text:      rec.Text,
		CreatedAt: rec.CreatedAt,
	}, nil
}
