package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	pollInterval = 500 * time.Millisecond
	runTimeout   = 60 * time.Second
)

var errRunTimeout = errors.New("assistant run did not finish in time")

// OpenAIAssistant drives a conversation through the OpenAI assistants API.
// Each customer gets a thread; the thread id travels with the customer so
// the model keeps context between messages.
type OpenAIAssistant struct {
	client *openai.Client
}

func NewOpenAIAssistant(apiKey string) *OpenAIAssistant {
	return &OpenAIAssistant{client: openai.NewClient(apiKey)}
}

func (a *OpenAIAssistant) SendMessage(ctx context.Context, assistantID, threadID, message, conversationContext string) (string, string, error) {
	if threadID == "" {
		thread, err := a.client.CreateThread(ctx, openai.ThreadRequest{})
		if err != nil {
			return "", "", fmt.Errorf("create thread: %w", err)
		}
		threadID = thread.ID
	}

	if _, err := a.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	}); err != nil {
		return "", threadID, fmt.Errorf("create message: %w", err)
	}

	run, err := a.client.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID:            assistantID,
		AdditionalInstructions: conversationContext,
	})
	if err != nil {
		return "", threadID, fmt.Errorf("create run: %w", err)
	}

	if err := a.waitForRun(ctx, threadID, run.ID); err != nil {
		return "", threadID, err
	}

	reply, err := a.latestAssistantReply(ctx, threadID)
	if err != nil {
		return "", threadID, err
	}
	return reply, threadID, nil
}

func (a *OpenAIAssistant) waitForRun(ctx context.Context, threadID, runID string) error {
	deadline := time.Now().Add(runTimeout)
	for {
		run, err := a.client.RetrieveRun(ctx, threadID, runID)
		if err != nil {
			return fmt.Errorf("retrieve run: %w", err)
		}

		switch run.Status {
		case openai.RunStatusCompleted:
			return nil
		case openai.RunStatusFailed, openai.RunStatusCancelled, openai.RunStatusExpired:
			return fmt.Errorf("assistant run ended with status %s", run.Status)
		case openai.RunStatusRequiresAction:
			return fmt.Errorf("assistant run requires unsupported tool action")
		}

		if time.Now().After(deadline) {
			return errRunTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (a *OpenAIAssistant) latestAssistantReply(ctx context.Context, threadID string) (string, error) {
	limit := 1
	order := "desc"
	messages, err := a.client.ListMessage(ctx, threadID, &limit, &order, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}

	for _, msg := range messages.Messages {
		if msg.Role != openai.ChatMessageRoleAssistant {
			continue
		}
		for _, content := range msg.Content {
			if content.Text != nil {
				return content.Text.Value, nil
			}
		}
	}
	return "", errors.New("assistant produced no text reply")
}
