package domain

// StayEventType names a change made to the stay catalog.
type StayEventType string

const (
	StayAdded      StayEventType = "stay-added"
	StayUpdated    StayEventType = "stay-updated"
	StayRemoved    StayEventType = "stay-removed"
	StayMsgAdded   StayEventType = "stay-msg-added"
	StayMsgRemoved StayEventType = "stay-msg-removed"
)

// StayEvent is broadcast after a successful mutation.
// Data holds the stay or message involved; nil for removals.
type StayEvent struct {
	Type   StayEventType `json:"type"`
	StayID string        `json:"stayId"`
	MsgID  string        `json:"msgId,omitempty"`
	UserID string        `json:"userId,omitempty"`
	Data   any           `json:"data,omitempty"`
}
