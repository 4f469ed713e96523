package router

import (
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/model"
)

type publisher interface {
	Publish(topic, payload string) error
	PublishJSON(topic string, v any) error
}

type router struct {
	publisher publisher
	topics    model.Topics
	device    model.Device
	logger    *zap.Logger
}

func New(publisher publisher, topics model.Topics, device model.Device) *router {
	return &router{
		publisher: publisher,
		topics:    topics,
		device:    device,
		logger:    zap.L(),
	}
}

// Handle publishes the boolean state derived from ev, if any, and then the
// full payload to the event topic.
func (r *router) Handle(ev model.Event) error {
	if topic, state, ok := r.classify(ev); ok {
		if err := r.publisher.Publish(topic, state); err != nil {
			return err
		}
	}

	if err := r.publisher.PublishJSON(r.topics.Event, ev.Payload); err != nil {
		return err
	}
	r.logger.Debug("event", zap.String("code", ev.Code), zap.Any("payload", ev.Payload))
	return nil
}

func (r *router) classify(ev model.Event) (topic, state string, ok bool) {
	switch {
	case r.isMotion(ev.Code):
		return r.topics.Motion, onOff(r.field(ev, "action", ev.Action) == model.ActionStart), true
	case ev.Code == model.EventCodeCrossRegionDetection:
		objectType := r.field(ev, "data.ObjectType", func() (string, bool) { return ev.DataString("ObjectType") })
		if objectType != model.ObjectTypeHuman {
			return "", "", false
		}
		return r.topics.Human, onOff(r.field(ev, "action", ev.Action) == model.ActionStart), true
	case ev.Code == model.EventCodeDoTalkAction:
		action := r.field(ev, "data.Action", func() (string, bool) { return ev.DataString("Action") })
		return r.topics.Doorbell, onOff(action == model.TalkInvite), true
	}
	return "", "", false
}

// isMotion reports whether code is this model's motion event. The AD110
// reports motion as ProfileAlarmTransmit, everything else as VideoMotion.
func (r *router) isMotion(code string) bool {
	if r.device.IsAD110() {
		return code == model.EventCodeProfileAlarmTransmit
	}
	return code == model.EventCodeVideoMotion
}

// field reads a payload field, logging a warning when it is missing.
func (r *router) field(ev model.Event, name string, get func() (string, bool)) string {
	v, ok := get()
	if !ok {
		r.logger.Warn("event payload is missing a field", zap.String("code", ev.Code), zap.String("field", name))
	}
	return v
}

func onOff(on bool) string {
	return lo.Ternary(on, model.StateOn, model.StateOff)
}
