package model

const (
	EventCodeVideoMotion          = "VideoMotion"
	EventCodeProfileAlarmTransmit = "ProfileAlarmTransmit"
	EventCodeCrossRegionDetection = "CrossRegionDetection"
	EventCodeDoTalkAction         = "_DoTalkAction_"

	ActionStart = "Start"
	ActionStop  = "Stop"

	ObjectTypeHuman = "Human"
	TalkInvite      = "Invite"
)

// Event is one record from the camera event stream. Payload holds every
// key of the record ("Code", "action", "index", "data", ...), with "data"
// decoded from JSON when possible.
type Event struct {
	Code    string
	Payload map[string]any
}

// Action returns the record's action field, e.g. "Start" or "Stop".
func (e Event) Action() (string, bool) {
	v, ok := e.Payload["action"].(string)
	return v, ok
}

// DataString returns a string field from the nested data object.
func (e Event) DataString(key string) (string, bool) {
	data, ok := e.Payload["data"].(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := data[key].(string)
	return v, ok
}
