package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rohit-NITW/harmony-backend/internal/models"
	"github.com/Rohit-NITW/harmony-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type chatUserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
}

// ChatService backs the peer-support chat between students and trained
// volunteers.
type ChatService struct {
	db               *pgxpool.Pool
	conversationRepo *repository.ConversationRepository
	messageRepo      *repository.MessageRepository
	userRepo         chatUserReader
}

type ChatDelivery struct {
	Conversation *models.Conversation
	Message      *models.ChatMessage
	RecipientID  int64
}

func NewChatService(
	db *pgxpool.Pool,
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	userRepo chatUserReader,
) *ChatService {
	return &ChatService{
		db:               db,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
	}
}

func (s *ChatService) ListConversations(
	ctx context.Context,
	actorID int64,
	role string,
) ([]models.ConversationSummary, error) {
	if role != models.RoleStudent && role != models.RoleVolunteer {
		return nil, ErrForbidden
	}

	return s.conversationRepo.ListForParticipant(ctx, actorID)
}

// ListVolunteers exposes the peer-support roster students pick a
// conversation partner from.
func (s *ChatService) ListVolunteers(
	ctx context.Context,
	role string,
) ([]models.User, error) {
	if role != models.RoleStudent && role != models.RoleVolunteer {
		return nil, ErrForbidden
	}

	return s.userRepo.ListByRole(ctx, models.RoleVolunteer)
}

func (s *ChatService) CreateConversation(
	ctx context.Context,
	actorID int64,
	role string,
	volunteerID int64,
) (*models.Conversation, error) {
	if role != models.RoleStudent {
		return nil, ErrForbidden
	}
	if volunteerID <= 0 || volunteerID == actorID {
		return nil, ErrInvalidInput
	}

	volunteer, err := s.userRepo.GetByID(ctx, volunteerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVolunteerNotFound
		}
		return nil, err
	}
	if volunteer.Role != models.RoleVolunteer {
		return nil, ErrInvalidInput
	}

	return s.conversationRepo.CreateOrGet(ctx, actorID, volunteerID)
}

func (s *ChatService) ListMessages(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
	page int,
	limit int,
) ([]models.ChatMessage, int, error) {
	if role != models.RoleStudent && role != models.RoleVolunteer {
		return nil, 0, ErrForbidden
	}
	if conversationID <= 0 || page <= 0 || limit <= 0 {
		return nil, 0, ErrInvalidInput
	}

	_, err := s.conversationRepo.GetByIDForParticipant(ctx, conversationID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, pgx.ErrNoRows
		}
		return nil, 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)

	messages, total, err := txMessageRepo.ListByConversation(
		ctx,
		conversationID,
		limit,
		(page-1)*limit,
	)
	if err != nil {
		return nil, 0, err
	}

	messageIDs := make([]int64, 0, len(messages))
	for _, message := range messages {
		messageIDs = append(messageIDs, message.ID)
	}

	if err := txMessageRepo.MarkMessagesRead(ctx, messageIDs, actorID); err != nil {
		return nil, 0, err
	}

	for i := range messages {
		if messages[i].SenderID != actorID {
			messages[i].IsRead = true
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (s *ChatService) SendMessage(
	ctx context.Context,
	actorID int64,
	role string,
	conversationID int64,
	content string,
) (*ChatDelivery, error) {
	if role != models.RoleStudent && role != models.RoleVolunteer {
		return nil, ErrForbidden
	}
	if conversationID <= 0 {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByIDForParticipant(ctx, conversationID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	recipientID := conversation.StudentID
	if actorID == conversation.StudentID {
		recipientID = conversation.VolunteerID
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)

	message, err := txMessageRepo.Create(ctx, conversationID, actorID, trimmed)
	if err != nil {
		return nil, err
	}

	if err := txConversationRepo.Touch(ctx, conversationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &ChatDelivery{
		Conversation: conversation,
		Message:      message,
		RecipientID:  recipientID,
	}, nil
}

func FormatChatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
