package entity

import "fmt"

// ViewType classifies a chat message by its payload.
type ViewType string

const (
	ViewTypeText    ViewType = "text"
	ViewTypeImage   ViewType = "image"
	ViewTypeFile    ViewType = "file"
	ViewTypeSticker ViewType = "sticker"
	ViewTypeWebxdc  ViewType = "webxdc"
)

// Message is the snapshot of a chat message needed to serve its blobs.
type Message struct {
	ID       uint32
	ChatID   uint32
	ViewType ViewType
	// File is the blob file name of the attachment, relative to the blob directory.
	File string
	Text string
}

// IsWebxdc reports whether the message carries a webxdc app.
func (m *Message) IsWebxdc() bool {
	return m != nil && m.ViewType == ViewTypeWebxdc && m.File != ""
}

// WebxdcInfo is the metadata of a webxdc app as reported by the account engine.
type WebxdcInfo struct {
	Name               string `json:"name"`
	Document           string `json:"document"`
	Icon               string `json:"icon"`
	SelfAddr           string `json:"selfAddr"`
	SelfName           string `json:"selfName"`
	SendUpdateInterval int    `json:"sendUpdateInterval"`
	SendUpdateMaxSize  int    `json:"sendUpdateMaxSize"`
	SourceCodeURL      string `json:"sourceCodeUrl"`
}

// InstanceKey identifies a webxdc message across accounts.
type InstanceKey struct {
	AccountID uint32
	MessageID uint32
}

func (k InstanceKey) String() string {
	return fmt.Sprintf("%d/%d", k.AccountID, k.MessageID)
}

// Instance is a live webxdc window. It is stored by value in the registry
// and never references the window itself.
type Instance struct {
	Label     string
	AccountID uint32
	MessageID uint32
	Message   Message
}

// Key returns the (account, message) pair of the instance.
func (i Instance) Key() InstanceKey {
	return InstanceKey{AccountID: i.AccountID, MessageID: i.MessageID}
}

// WebxdcUpdateKind distinguishes the events pushed to a running app.
type WebxdcUpdateKind string

const (
	WebxdcUpdateStatus         WebxdcUpdateKind = "status"
	WebxdcUpdateRealtimePacket WebxdcUpdateKind = "realtimePacket"
)

// WebxdcUpdate is pushed through an instance's update channel.
type WebxdcUpdate struct {
	Event WebxdcUpdateKind `json:"event"`
	Data  []byte           `json:"data,omitempty"`
}

// WebxdcTitle builds the window title of a webxdc app.
func WebxdcTitle(info WebxdcInfo, chatName string) string {
	title := ""
	if info.Document != "" {
		title = Truncate(info.Document, 32) + " - "
	}
	return title + Truncate(info.Name, 42) + " – " + chatName
}
