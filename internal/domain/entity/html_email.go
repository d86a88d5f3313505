package entity

// HTMLEmailInstance is the state of one HTML email viewer window.
type HTMLEmailInstance struct {
	Label            string
	AccountID        uint32
	MessageID        uint32
	IsContactRequest bool
	Subject          string
	Sender           string
	ReceiveTime      string
	HTMLContent      []byte
	// NetworkAllowState can only be true while BlockedByProxy is false.
	NetworkAllowState bool
	BlockedByProxy    bool
}

// NewHTMLEmailInstance derives the initial remote content state.
func NewHTMLEmailInstance(
	label string,
	accountID, messageID uint32,
	isContactRequest bool,
	alwaysAllowRemote bool,
	proxyEnabled bool,
) *HTMLEmailInstance {
	inst := &HTMLEmailInstance{
		Label:            label,
		AccountID:        accountID,
		MessageID:        messageID,
		IsContactRequest: isContactRequest,
		BlockedByProxy:   proxyEnabled,
	}
	switch {
	case proxyEnabled:
		inst.NetworkAllowState = false
	case isContactRequest:
		inst.NetworkAllowState = false
	default:
		inst.NetworkAllowState = alwaysAllowRemote
	}
	return inst
}

// SetNetworkAllowState applies a user toggle. Enabling remote content on a
// proxied account fails with ErrProxyBlocksRemoteContent and leaves the state untouched.
func (h *HTMLEmailInstance) SetNetworkAllowState(allow bool) error {
	if allow && h.BlockedByProxy {
		return ErrProxyBlocksRemoteContent
	}
	h.NetworkAllowState = allow && !h.BlockedByProxy
	return nil
}

// ShowNetworkToggle reports whether the header should offer the remote content toggle.
func (h *HTMLEmailInstance) ShowNetworkToggle() bool {
	return !h.BlockedByProxy
}
