package memory

import (
	"context"
	"slices"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// ConversationStore persists conversations keyed by conversation id and owner.
type ConversationStore interface {
	// FindOne returns nil without error when no conversation matches both ids.
	FindOne(ctx context.Context, conversationID, userID string) (*Conversation, error)
	Create(ctx context.Context, conversation *Conversation) error
	Save(ctx context.Context, conversation *Conversation) error
	// ListByUser returns the user's conversations, most recently updated first.
	ListByUser(ctx context.Context, userID string) ([]Conversation, error)
}

// ConversationManager is the mongo backed ConversationStore.
// A nil collection turns it into a store that remembers nothing.
type ConversationManager struct {
	collection odm.OdmCollectionInterface[Conversation]
}

func NewConversationManager(collection odm.OdmCollectionInterface[Conversation]) *ConversationManager {
	return &ConversationManager{collection: collection}
}

func ProvideConversationManager(mongo odm.MongoClient, tenant string) *ConversationManager {
	return NewConversationManager(odm.CollectionOf[Conversation](mongo, tenant))
}

func (cm *ConversationManager) FindOne(ctx context.Context, conversationID, userID string) (*Conversation, error) {
	if cm.collection == nil {
		return nil, nil
	}

	found, err := async.Await(cm.collection.Find(ctx, bson.M{"_id": ConversationKey(userID, conversationID)}, nil, 1, 0))
	if err != nil {
		logger.Error("Failed to find conversation", zap.String("conversationId", conversationID), zap.Error(err))
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}

	return &found[0], nil
}

func (cm *ConversationManager) Create(ctx context.Context, conversation *Conversation) error {
	return cm.Save(ctx, conversation)
}

func (cm *ConversationManager) Save(ctx context.Context, conversation *Conversation) error {
	if cm.collection == nil {
		return nil
	}

	_, err := async.Await(cm.collection.Save(ctx, *conversation))
	if err != nil {
		logger.Error("Failed to save conversation", zap.String("conversationId", conversation.ID), zap.Error(err))
		return err
	}

	return nil
}

func (cm *ConversationManager) ListByUser(ctx context.Context, userID string) ([]Conversation, error) {
	if cm.collection == nil {
		return []Conversation{}, nil
	}

	conversations, err := async.Await(cm.collection.Find(ctx, bson.M{"userId": userID}, nil, 0, 0))
	if err != nil {
		logger.Error("Failed to list conversations", zap.String("userId", userID), zap.Error(err))
		return nil, err
	}

	SortByRecent(conversations)
	return conversations, nil
}

// SortByRecent orders conversations by last update, newest first.
func SortByRecent(conversations []Conversation) {
	slices.SortStableFunc(conversations, func(a, b Conversation) int {
		switch {
		case a.UpdatedOn > b.UpdatedOn:
			return -1
		case a.UpdatedOn < b.UpdatedOn:
			return 1
		default:
			return 0
		}
	})
}
