package realtime

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"adboard/internal/domain/entity"
	"adboard/pkg/logger"
)

// NewMessageStream returns a StreamFunc backed by Firestore query snapshots
// on the conversation's messages subcollection, ordered by creation time.
// Each emitted snapshot is delivered as a full batch; within one stream,
// batches arrive in the order the backend emits them.
func NewMessageStream(client *firestore.Client) StreamFunc {
	return func(ctx context.Context, conversationID string, deliver DeliverFunc) {
		iter := client.Collection("conversations").
			Doc(conversationID).
			Collection("messages").
			OrderBy("createdAt", firestore.Asc).
			Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				deliver(MessageBatch{ConversationID: conversationID}, err)
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				deliver(MessageBatch{ConversationID: conversationID}, err)
				return
			}

			batch := MessageBatch{ConversationID: conversationID}
			for _, doc := range docs {
				var msg entity.Message
				if err := doc.DataTo(&msg); err != nil {
					logger.Warn("Skipping unparsable message %s in stream for %s: %v", doc.Ref.ID, conversationID, err)
					continue
				}
				msg.ID = doc.Ref.ID
				batch.Messages = append(batch.Messages, &msg)
			}

			deliver(batch, nil)
		}
	}
}

// WatchUser subscribes to one user document and reports its presence flag
// on every change. The returned handle cancels the subscription.
func WatchUser(client *firestore.Client, userID string, onChange func(userID string, online bool), onError func(error)) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		iter := client.Collection("users").Doc(userID).Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				if onError != nil {
					onError(err)
				}
				return
			}

			if !snap.Exists() {
				onChange(userID, false)
				continue
			}

			var user entity.User
			if err := snap.DataTo(&user); err != nil {
				logger.Warn("Unparsable user snapshot for %s: %v", userID, err)
				continue
			}
			onChange(userID, user.Online)
		}
	}()

	return cancel
}

// WatchAd subscribes to one ad document and reports whether it still exists
// on every change. Used to detect external removal of the listing behind the
// currently open conversation.
func WatchAd(client *firestore.Client, adID string, onChange func(adID string, exists bool), onError func(error)) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		iter := client.Collection("ads").Doc(adID).Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				if onError != nil {
					onError(err)
				}
				return
			}

			onChange(adID, snap.Exists())
		}
	}()

	return cancel
}

// WatchConversations subscribes to all conversations the user participates
// in and reports the full set on every change. Drives the realtime unread
// badge recomputation.
func WatchConversations(client *firestore.Client, userID string, onChange func([]*entity.Conversation), onError func(error)) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		iter := client.Collection("conversations").
			Where("users", "array-contains", userID).
			Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				if onError != nil {
					onError(err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				if onError != nil {
					onError(err)
				}
				return
			}

			var convs []*entity.Conversation
			for _, doc := range docs {
				var conv entity.Conversation
				if err := doc.DataTo(&conv); err != nil {
					logger.Warn("Skipping unparsable conversation %s: %v", doc.Ref.ID, err)
					continue
				}
				conv.ID = doc.Ref.ID
				convs = append(convs, &conv)
			}

			onChange(convs)
		}
	}()

	return cancel
}
