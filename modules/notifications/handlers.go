package notifications

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/notifier/core"
	"github.com/dmitrymomot/notifier/handler"
	"github.com/dmitrymomot/notifier/pkg/dispatch"
)

func (rt *routes) sendEmail(ctx handler.Context, req SendEmailRequest) handler.Response {
	receipt, err := rt.svc.SendMail(ctx, req.toMail())
	if err != nil {
		return handler.Error(err)
	}
	return handler.Success("Email sent successfully to "+req.To, receipt)
}

type pushDetails struct {
	MessageID    string `json:"messageId"`
	SuccessCount int    `json:"successCount"`
	FailureCount int    `json:"failureCount"`
}

func newPushDetails(r dispatch.PushReceipt) pushDetails {
	id := r.MessageID
	if id == "" {
		id = "N/A"
	}
	return pushDetails{MessageID: id, SuccessCount: r.SuccessCount, FailureCount: r.FailureCount}
}

func (rt *routes) sendPush(ctx handler.Context, req SendPushRequest) handler.Response {
	receipt, err := rt.svc.SendPush(ctx, req.toPush())
	if err != nil {
		// A multicast that reached nobody still reports per-device counts.
		if receipt.FailureCount > 0 && errors.Is(err, dispatch.ErrPushDeliveryFailed) {
			return handler.Error(core.ErrFirebase.Wrap(err).WithDetails(newPushDetails(receipt)))
		}
		return handler.Error(err)
	}
	return handler.Success("Push notification sent successfully", newPushDetails(receipt))
}

func (rt *routes) subscribe(ctx handler.Context, req TopicRequest) handler.Response {
	receipt, err := rt.svc.SubscribeTopic(ctx, req.Tokens, req.Topic)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Success(fmt.Sprintf("Subscribed to topic %s", req.Topic), receipt)
}

func (rt *routes) unsubscribe(ctx handler.Context, req TopicRequest) handler.Response {
	receipt, err := rt.svc.UnsubscribeTopic(ctx, req.Tokens, req.Topic)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Success(fmt.Sprintf("Unsubscribed from topic %s", req.Topic), receipt)
}

func (rt *routes) broadcast(ctx handler.Context, req BroadcastRequest) handler.Response {
	receipt := rt.svc.Broadcast(ctx, req.Event, req.Data)
	return handler.Accepted("WebSocket message broadcast", receipt)
}

func (rt *routes) emit(ctx handler.Context, req EmitRequest) handler.Response {
	receipt := rt.svc.EmitToRoom(ctx, req.Room, req.Event, req.Data)
	return handler.Accepted("Message sent to room "+req.Room, receipt)
}

func (rt *routes) toast(ctx handler.Context, req ToastRequest) handler.Response {
	receipt, err := rt.svc.SendToast(ctx, req.UserID, dispatch.Toast{Type: req.Type, Message: req.Message})
	if err != nil {
		return handler.Error(err)
	}
	return handler.Accepted("Toast sent to user "+req.UserID, receipt)
}

func (rt *routes) metrics(ctx handler.Context, req MetricsRequest) handler.Response {
	receipt := rt.svc.SendMetricsUpdate(ctx, req.UserID, req.Data)
	return handler.Accepted("Metrics update sent", receipt)
}
