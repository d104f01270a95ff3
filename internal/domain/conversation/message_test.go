//go:build unit

package conversation_test

import (
	"strings"
	"testing"
	"time"

	"stayops/internal/domain/actor"
	"stayops/internal/domain/conversation"
	"stayops/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageCase struct {
	name   string
	mutate func(*builder.MessageBuilder)
	errIs  error
}

func TestMessage(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewMessageBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, actor.RoleGuest, actual.SenderRole())
		assert.Equal(t, "Is a late checkout possible on Sunday?", actual.Content())
		assert.Zero(t, actual.Seq(), "seq is assigned by the archive, not the constructor")
		assert.False(t, actual.CreatedAt().IsZero())
	})

	t.Run("content validation", func(t *testing.T) {
		runMessageCases(t, []messageCase{
			{
				name:   "single character content",
				mutate: func(b *builder.MessageBuilder) { b.WithContent("k") },
			},
			{
				name: "maximum length content",
				mutate: func(b *builder.MessageBuilder) {
					b.WithContent(strings.Repeat("a", conversation.MaxContentLength))
				},
			},
			{
				name:   "empty content",
				mutate: func(b *builder.MessageBuilder) { b.WithContent("") },
				errIs:  conversation.ErrEmptyContent,
			},
			{
				name:   "whitespace only content",
				mutate: func(b *builder.MessageBuilder) { b.WithContent("   \n\t") },
				errIs:  conversation.ErrEmptyContent,
			},
			{
				name: "content exceeds maximum length",
				mutate: func(b *builder.MessageBuilder) {
					b.WithContent(strings.Repeat("a", conversation.MaxContentLength+1))
				},
				errIs: conversation.ErrContentTooLong,
			},
			{
				name: "unknown sender role",
				mutate: func(b *builder.MessageBuilder) {
					b.WithSender(uuid.New(), actor.Role("janitor"))
				},
				errIs: conversation.ErrInvalidSender,
			},
		})
	})

	t.Run("timestamp comes from the caller's clock", func(t *testing.T) {
		stamped := time.Date(2026, 9, 3, 14, 30, 0, 0, time.UTC)
		msg, err := builder.NewMessageBuilder().WithCreatedAt(stamped).BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, stamped, msg.CreatedAt())
	})

	t.Run("content is trimmed", func(t *testing.T) {
		msg, err := builder.NewMessageBuilder().WithContent("  I left my charger in 204.  ").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "I left my charger in 204.", msg.Content())
	})
}

func TestConversation(t *testing.T) {
	t.Run("opens unlocked with no history", func(t *testing.T) {
		conv := builder.NewConversationBuilder().BuildDomain()

		assert.NotEqual(t, uuid.Nil, conv.ID())
		assert.Equal(t, "GUEST-1042", conv.ParticipantCode())
		assert.Equal(t, conversation.StatusOpen, conv.Status())
		assert.Nil(t, conv.LockedBy())
		assert.Nil(t, conv.LastMessageAt())
		assert.Zero(t, conv.UnreadCount())
	})

	t.Run("status transitions", func(t *testing.T) {
		conv := builder.NewConversationBuilder().BuildDomain()

		require.NoError(t, conv.MarkOngoing())
		assert.Equal(t, conversation.StatusOngoing, conv.Status())

		require.NoError(t, conv.Close())
		assert.True(t, conv.IsClosed())

		assert.ErrorIs(t, conv.MarkOngoing(), conversation.ErrClosed)
		assert.ErrorIs(t, conv.Close(), conversation.ErrClosed)
	})
}

func runMessageCases(t *testing.T, cases []messageCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewMessageBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
