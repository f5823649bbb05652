package chatservice

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domainerrors "statecraft/contexts/community-experience/chat-service/domain/errors"
	"statecraft/contexts/community-experience/chat-service/ports"
	moderationservice "statecraft/contexts/moderation-safety/moderation-service"
	"statecraft/internal/platform/messaging"
	"statecraft/internal/shared/events"
)

func newChatModule(t *testing.T, bus *messaging.Bus) Module {
	t.Helper()
	moderation, err := moderationservice.NewInMemoryModule(nil, nil)
	if err != nil {
		t.Fatalf("moderation module: %v", err)
	}
	filter := FilterFunc(func(ctx context.Context, text string) (ports.ScreenResult, error) {
		result, err := moderation.Filter.Screen(ctx, text)
		if err != nil {
			return ports.ScreenResult{}, err
		}
		return ports.ScreenResult{Verdict: result.Verdict, Masked: result.Masked}, nil
	})
	var publisher ports.EventPublisher
	if bus != nil {
		publisher = bus
	}
	return NewInMemoryModule(filter, publisher, nil)
}

func postMessage(t *testing.T, module Module, key string, channelID string, content string) ports.Message {
	t.Helper()
	message, err := module.Chat.PostMessage(context.Background(), key, ports.PostMessageInput{
		ChannelID: channelID,
		AuthorID:  "player-1",
		Content:   content,
	})
	if err != nil {
		t.Fatalf("post message: %v", err)
	}
	return message
}

func TestPostMessagePublishesToChannelTopic(t *testing.T) {
	bus := messaging.NewBus(nil)
	module := newChatModule(t, bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	if err := bus.Subscribe(ctx, "chat.room-1", "test-fanout", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	message := postMessage(t, module, "post-1", "room-1", "motion to adjourn")
	if message.Sequence != 1 {
		t.Fatalf("sequence = %d, want 1", message.Sequence)
	}

	select {
	case event := <-received:
		if event.EventType != "chat.message.posted" {
			t.Fatalf("event type = %q", event.EventType)
		}
		if event.EntityID != message.MessageID {
			t.Fatalf("entity id = %q, want %q", event.EntityID, message.MessageID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no fanout event on chat.room-1")
	}
}

func TestPostMessageScreensContent(t *testing.T) {
	module := newChatModule(t, nil)
	ctx := context.Background()

	_, err := module.Chat.PostMessage(ctx, "post-blocked", ports.PostMessageInput{
		ChannelID: "room-1",
		AuthorID:  "player-1",
		Content:   "this bill is shit",
	})
	if !errors.Is(err, domainerrors.ErrProfanityRejected) {
		t.Fatalf("blocked content: got %v, want ErrProfanityRejected", err)
	}
	listed, err := module.Chat.ListChannelMessages(ctx, ports.ListMessagesInput{ChannelID: "room-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("rejected message must not be stored, got %d", len(listed))
	}

	masked := postMessage(t, module, "post-masked", "room-1", "what the hell")
	if masked.Content != "what the h***" {
		t.Fatalf("content = %q, want masked form", masked.Content)
	}
}

func TestPostMessageIdempotency(t *testing.T) {
	module := newChatModule(t, nil)
	ctx := context.Background()

	first := postMessage(t, module, "post-1", "room-1", "aye on hr-100")
	replay := postMessage(t, module, "post-1", "room-1", "aye on hr-100")
	if replay.MessageID != first.MessageID {
		t.Fatalf("replay produced a new message: %q vs %q", replay.MessageID, first.MessageID)
	}
	listed, err := module.Chat.ListChannelMessages(ctx, ports.ListMessagesInput{ChannelID: "room-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("got %d messages, want 1", len(listed))
	}

	_, err = module.Chat.PostMessage(ctx, "post-1", ports.PostMessageInput{
		ChannelID: "room-1",
		AuthorID:  "player-1",
		Content:   "nay on hr-100",
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("reused key with new content: got %v, want ErrIdempotencyConflict", err)
	}
}

func TestEditAndDeleteAreAuthorOnly(t *testing.T) {
	module := newChatModule(t, nil)
	ctx := context.Background()
	message := postMessage(t, module, "post-1", "room-1", "first draft")

	_, err := module.Chat.EditMessage(ctx, "edit-other", ports.EditMessageInput{
		MessageID: message.MessageID,
		AuthorID:  "player-2",
		Content:   "hijacked",
	})
	if !errors.Is(err, domainerrors.ErrNotAuthor) {
		t.Fatalf("foreign edit: got %v, want ErrNotAuthor", err)
	}

	edited, err := module.Chat.EditMessage(ctx, "edit-1", ports.EditMessageInput{
		MessageID: message.MessageID,
		AuthorID:  "player-1",
		Content:   "second draft",
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Content != "second draft" || !edited.Edited {
		t.Fatalf("edit not applied: %+v", edited)
	}

	if _, err := module.Chat.DeleteMessage(ctx, "del-other", ports.DeleteMessageInput{
		MessageID: message.MessageID,
		AuthorID:  "player-2",
	}); !errors.Is(err, domainerrors.ErrNotAuthor) {
		t.Fatalf("foreign delete: got %v, want ErrNotAuthor", err)
	}

	deleted, err := module.Chat.DeleteMessage(ctx, "del-1", ports.DeleteMessageInput{
		MessageID: message.MessageID,
		AuthorID:  "player-1",
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.DeletedAt == nil || deleted.Content != "" {
		t.Fatalf("soft delete must clear content and stamp time: %+v", deleted)
	}

	if _, err := module.Chat.EditMessage(ctx, "edit-2", ports.EditMessageInput{
		MessageID: message.MessageID,
		AuthorID:  "player-1",
		Content:   "third draft",
	}); !errors.Is(err, domainerrors.ErrMessageDeleted) {
		t.Fatalf("edit after delete: got %v, want ErrMessageDeleted", err)
	}

	listed, err := module.Chat.ListChannelMessages(ctx, ports.ListMessagesInput{ChannelID: "room-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("deleted message still listed: %+v", listed)
	}
}

func TestListChannelMessagesPagesNewestLast(t *testing.T) {
	module := newChatModule(t, nil)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		postMessage(t, module, fmt.Sprintf("post-%d", i), "room-1", fmt.Sprintf("message %d", i))
	}

	page, err := module.Chat.ListChannelMessages(ctx, ports.ListMessagesInput{ChannelID: "room-1", Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].Sequence != 4 || page[1].Sequence != 5 {
		t.Fatalf("latest page wrong: %+v", page)
	}

	page, err = module.Chat.ListChannelMessages(ctx, ports.ListMessagesInput{
		ChannelID:      "room-1",
		Limit:          2,
		BeforeSequence: 4,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].Sequence != 2 || page[1].Sequence != 3 {
		t.Fatalf("older page wrong: %+v", page)
	}
}
