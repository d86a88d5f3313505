package port

import "context"

// Desktop setting keys read by the shell core.
const (
	SettingAlwaysAllowRemoteContent = "alwaysAllowRemoteContent"
	SettingHTMLEmailWarning         = "htmlEmailWarning"
	SettingProxyEnabled             = "proxyEnabled"
	SettingContentProtection        = "contentProtectionEnabled"
	SettingWebxdcZoomFactor         = "webxdcZoomFactor"
	SettingWebxdcDevTools           = "enableWebxdcDevTools"
)

// SettingsStore is the typed desktop settings store.
// Unknown keys return their registered default.
type SettingsStore interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
	GetFloat(ctx context.Context, key string) (float64, error)
}
