package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/bharatgram/server/internal/core/domain"
	"gorm.io/gorm"
)

// ChatRepository implements port.ChatRepository on gorm. The participant
// pair is stored in sorted order so the unordered {a, b} lookup hits a
// single row.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Touch(ctx context.Context, chatID domain.ChatID, summary string) error {
	res := r.db.WithContext(ctx).
		Model(&chatRecord{}).
		Where("id = ?", chatID.String()).
		Updates(map[string]any{
			"last_message": summary,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

func (r *ChatRepository) FindOrCreate(ctx context.Context, a, b domain.UserID) (*domain.Chat, error) {
	pa, pb := a.String(), b.String()
	if pb < pa {
		pa, pb = pb, pa
	}

	var rec chatRecord
	err := r.db.WithContext(ctx).
		Where("participant_a = ? AND participant_b = ?", pa, pb).
		First(&rec).Error
	if err == nil {
		return toChat(rec)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	chat := domain.NewChat(domain.UserID(pa), domain.UserID(pb))
	rec = chatRecord{
		ID:           chat.ID.String(),
		ParticipantA: pa,
		ParticipantB: pb,
		CreatedAt:    chat.CreatedAt,
		UpdatedAt:    chat.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *ChatRepository) Get(ctx context.Context, chatID domain.ChatID) (*domain.Chat, error) {
	var rec chatRecord
	err := r.db.WithContext(ctx).Where("id = ?", chatID.String()).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return toChat(rec)
}

func (r *ChatRepository) ListByParticipant(ctx context.Context, userID domain.UserID) ([]domain.Chat, error) {
	var recs []chatRecord
	err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID.String(), userID.String()).
		Order("updated_at desc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	chats := make([]domain.Chat, 0, len(recs))
	for _, rec := range recs {
		chat, err := toChat(rec)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *chat)
	}
	return chats, nil
}

func toChat(rec chatRecord) (*domain.Chat, error) {
	id, err := domain.ParseChatID(rec.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Chat{
		ID:           id,
		Participants: [2]domain.UserID{domain.UserID(rec.ParticipantA), domain.UserID(rec.ParticipantB)},
		LastMessage:  rec.LastMessage,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}, nil
}
