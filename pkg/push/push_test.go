package push_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/logger"
	"github.com/dmitrymomot/notifier/pkg/push"
	"github.com/dmitrymomot/notifier/pkg/validator"
)

type mockFCM struct {
	mock.Mock
}

func (m *mockFCM) Send(ctx context.Context, msg *messaging.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *mockFCM) SendEachForMulticast(ctx context.Context, msg *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	args := m.Called(ctx, msg)
	resp, _ := args.Get(0).(*messaging.BatchResponse)
	return resp, args.Error(1)
}

func (m *mockFCM) SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error) {
	args := m.Called(ctx, tokens, topic)
	resp, _ := args.Get(0).(*messaging.TopicManagementResponse)
	return resp, args.Error(1)
}

func (m *mockFCM) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error) {
	args := m.Called(ctx, tokens, topic)
	resp, _ := args.Get(0).(*messaging.TopicManagementResponse)
	return resp, args.Error(1)
}

func newSender(client push.FCMClient) *push.FCMSender {
	return push.NewFCMSender(client, push.WithLogger(logger.Discard()))
}

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		msg   push.Message
		field string
	}{
		{name: "single token", msg: push.Message{Token: "t1", Title: "a", Body: "b"}},
		{name: "tokens", msg: push.Message{Tokens: []string{"t1", "t2"}, Title: "a", Body: "b"}},
		{name: "topic", msg: push.Message{Topic: "news", Title: "a", Body: "b"}},
		{name: "no target", msg: push.Message{Title: "a", Body: "b"}, field: "target"},
		{name: "two targets", msg: push.Message{Token: "t1", Topic: "news", Title: "a", Body: "b"}, field: "target"},
		{name: "blank token in list", msg: push.Message{Tokens: []string{"t1", " "}, Title: "a", Body: "b"}, field: "tokens"},
		{name: "bad topic", msg: push.Message{Topic: "no spaces", Title: "a", Body: "b"}, field: "topic"},
		{name: "missing title", msg: push.Message{Token: "t1", Body: "b"}, field: "title"},
		{name: "missing body", msg: push.Message{Token: "t1", Title: "a"}, field: "body"},
		{name: "too many tokens", msg: push.Message{Tokens: make([]string, push.MaxMulticastTokens+1), Title: "a", Body: "b"}, field: "tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.msg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, validator.ExtractValidationErrors(err).Has(tt.field), err.Error())
		})
	}
}

func TestMessage_Kind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "device", push.Message{Token: "t"}.Kind())
	assert.Equal(t, "multicast", push.Message{Tokens: []string{"t"}}.Kind())
	assert.Equal(t, "topic", push.Message{Topic: "news"}.Kind())
}

func TestFCMSender_SendSingle(t *testing.T) {
	t.Parallel()

	client := &mockFCM{}
	client.On("Send", mock.Anything, mock.MatchedBy(func(m *messaging.Message) bool {
		return m.Token == "t1" && m.Notification.Title == "Hi" && m.Data["k"] == "v"
	})).Return("projects/p/messages/1", nil).Once()

	receipt, err := newSender(client).Send(context.Background(), push.Message{
		Token: "t1", Title: "Hi", Body: "there", Data: map[string]string{"k": "v"},
	})
	require.NoError(t, err)
	assert.Equal(t, "projects/p/messages/1", receipt.MessageID)
	assert.Equal(t, 1, receipt.SuccessCount)
	client.AssertExpectations(t)
}

func TestFCMSender_SendTopic(t *testing.T) {
	t.Parallel()

	client := &mockFCM{}
	client.On("Send", mock.Anything, mock.MatchedBy(func(m *messaging.Message) bool {
		return m.Topic == "news" && m.Token == ""
	})).Return("projects/p/messages/2", nil).Once()

	receipt, err := newSender(client).Send(context.Background(), push.Message{Topic: "news", Title: "a", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, "projects/p/messages/2", receipt.MessageID)
}

func TestFCMSender_SendError(t *testing.T) {
	t.Parallel()

	client := &mockFCM{}
	client.On("Send", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()

	_, err := newSender(client).Send(context.Background(), push.Message{Token: "t1", Title: "a", Body: "b"})
	assert.ErrorIs(t, err, push.ErrDeliveryFailed)
}

func TestFCMSender_SendInvalid(t *testing.T) {
	t.Parallel()

	client := &mockFCM{}
	_, err := newSender(client).Send(context.Background(), push.Message{Title: "a", Body: "b"})
	assert.True(t, validator.IsValidationError(err))
	client.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestFCMSender_Multicast(t *testing.T) {
	t.Parallel()

	client := &mockFCM{}
	client.On("SendEachForMulticast", mock.Anything, mock.MatchedBy(func(m *messaging.MulticastMessage) bool {
		return len(m.Tokens) == 3
	})).Return(&messaging.BatchResponse{
		SuccessCount: 2,
		FailureCount: 1,
		Responses: []*messaging.SendResponse{
			{Success: true, MessageID: "m1"},
			{Success: false, Error: errors.New("bad token")},
			{Success: true, MessageID: "m3"},
		},
	}, nil).Once()

	receipt, err := newSender(client).Send(context.Background(), push.Message{
		Tokens: []string{"a", "b", "c"}, Title: "t", Body: "b",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.SuccessCount)
	assert.Equal(t, 1, receipt.FailureCount)
	assert.Equal(t, "m1", receipt.MessageID)
	assert.Equal(t, []string{"m1", "m3"}, receipt.MessageIDs)
	require.Len(t, receipt.Failures, 1)
	assert.Equal(t, "b", receipt.Failures[0].Token)
	assert.Equal(t, "unknown", receipt.Failures[0].Reason)
}

func TestFCMSender_MulticastNoneDelivered(t *testing.T) {
	t.Parallel()

	client := &mockFCM{}
	client.On("SendEachForMulticast", mock.Anything, mock.Anything).Return(&messaging.BatchResponse{
		FailureCount: 2,
		Responses: []*messaging.SendResponse{
			{Error: errors.New("x")},
			{Error: errors.New("y")},
		},
	}, nil).Once()

	receipt, err := newSender(client).Send(context.Background(), push.Message{
		Tokens: []string{"a", "b"}, Title: "t", Body: "b",
	})
	require.NoError(t, err)
	assert.Zero(t, receipt.SuccessCount)
	assert.Empty(t, receipt.MessageID)
	assert.Len(t, receipt.Failures, 2)
}

func TestFCMSender_MulticastTransportError(t *testing.T) {
	t.Parallel()

	client := &mockFCM{}
	client.On("SendEachForMulticast", mock.Anything, mock.Anything).Return(nil, errors.New("network")).Once()

	_, err := newSender(client).Send(context.Background(), push.Message{
		Tokens: []string{"a"}, Title: "t", Body: "b",
	})
	assert.ErrorIs(t, err, push.ErrDeliveryFailed)
}

func TestFCMSender_Topics(t *testing.T) {
	t.Parallel()

	tokens := []string{"a", "b"}
	client := &mockFCM{}
	client.On("SubscribeToTopic", mock.Anything, tokens, "news").Return(&messaging.TopicManagementResponse{
		SuccessCount: 1,
		FailureCount: 1,
		Errors:       []*messaging.ErrorInfo{{Index: 1, Reason: "invalid-argument"}},
	}, nil).Once()
	client.On("UnsubscribeFromTopic", mock.Anything, tokens, "news").Return(nil, errors.New("down")).Once()

	sender := newSender(client)

	receipt, err := sender.SubscribeToTopic(context.Background(), tokens, "news")
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.SuccessCount)
	require.Len(t, receipt.Failures, 1)
	assert.Equal(t, push.Failure{Token: "b", Reason: "invalid-argument"}, receipt.Failures[0])

	_, err = sender.UnsubscribeFromTopic(context.Background(), tokens, "news")
	assert.ErrorIs(t, err, push.ErrTopicManagement)

	_, err = sender.SubscribeToTopic(context.Background(), nil, "news")
	assert.True(t, validator.IsValidationError(err))

	client.AssertExpectations(t)
}

func TestNew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := push.WithLogger(logger.Discard())

	sender, err := push.New(ctx, push.Config{}, log)
	require.NoError(t, err)
	assert.ErrorIs(t, sender.Ready(), push.ErrNotConfigured)

	sender, err = push.New(ctx, push.Config{}, log, push.WithClient(&mockFCM{}))
	require.NoError(t, err)
	assert.NoError(t, sender.Ready())

	_, err = push.New(ctx, push.Config{ServiceAccountJSON: "not json"}, log)
	assert.ErrorIs(t, err, push.ErrInvalidConfig)

	_, err = push.New(ctx, push.Config{ServiceAccountFile: filepath.Join(t.TempDir(), "missing.json")}, log)
	assert.ErrorIs(t, err, push.ErrInvalidConfig)
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	var s push.Sender = push.Disabled{}
	ctx := context.Background()

	_, err := s.Send(ctx, push.Message{Token: "t", Title: "a", Body: "b"})
	assert.ErrorIs(t, err, push.ErrNotConfigured)
	_, err = s.SubscribeToTopic(ctx, []string{"t"}, "news")
	assert.ErrorIs(t, err, push.ErrNotConfigured)
	_, err = s.UnsubscribeFromTopic(ctx, []string{"t"}, "news")
	assert.ErrorIs(t, err, push.ErrNotConfigured)
	assert.ErrorIs(t, s.Ready(), push.ErrNotConfigured)
}

func TestStringifyData(t *testing.T) {
	t.Parallel()

	out, err := push.StringifyData(map[string]any{
		"s":    "plain",
		"n":    float64(42),
		"b":    true,
		"obj":  map[string]any{"a": float64(1)},
		"null": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"s":    "plain",
		"n":    "42",
		"b":    "true",
		"obj":  `{"a":1}`,
		"null": "",
	}, out)

	out, err = push.StringifyData(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = push.StringifyData(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}
