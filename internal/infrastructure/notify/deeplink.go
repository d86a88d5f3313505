// Package notify encodes notification responses as deep links, so that a
// click on an OS notification can be routed back into the running app.
//
//	<scheme>://<notification id>/<action>?<base64(json(user info))>
//
// The action is __default__, __dismiss__ or the id of a custom action.
// User text is not part of the link.
package notify

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/bnema/dcshell/internal/domain/entity"
)

const (
	actionDefault = "__default__"
	actionDismiss = "__dismiss__"
)

// ErrInvalidDeepLink is returned for links that do not follow the format.
var ErrInvalidDeepLink = errors.New("invalid notification deep link")

var notificationIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Encode builds the deep link for resp.
func Encode(scheme string, resp entity.NotificationResponse) (string, error) {
	if scheme == "" {
		return "", fmt.Errorf("%w: empty scheme", ErrInvalidDeepLink)
	}
	if !notificationIDPattern.MatchString(resp.NotificationID) {
		return "", fmt.Errorf("%w: notification id %q", ErrInvalidDeepLink, resp.NotificationID)
	}

	var action string
	switch resp.Action.Kind {
	case entity.NotificationActionDefault:
		action = actionDefault
	case entity.NotificationActionDismiss:
		action = actionDismiss
	case entity.NotificationActionOther:
		if resp.Action.ID == "" || strings.HasPrefix(resp.Action.ID, "__") {
			return "", fmt.Errorf("%w: action id %q", ErrInvalidDeepLink, resp.Action.ID)
		}
		action = url.PathEscape(resp.Action.ID)
	default:
		return "", fmt.Errorf("%w: action kind %q", ErrInvalidDeepLink, resp.Action.Kind)
	}

	info, err := json.Marshal(resp.UserInfo)
	if err != nil {
		return "", fmt.Errorf("failed to encode user info: %w", err)
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     resp.NotificationID,
		RawPath:  "/" + action,
		Path:     "/" + unescapeOrSelf(action),
		RawQuery: base64.URLEncoding.EncodeToString(info),
	}
	return u.String(), nil
}

func unescapeOrSelf(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}

// Decode parses a deep link built by Encode.
func Decode(raw string) (scheme string, resp entity.NotificationResponse, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", resp, fmt.Errorf("%w: %w", ErrInvalidDeepLink, err)
	}
	if u.Scheme == "" || !notificationIDPattern.MatchString(u.Host) {
		return "", resp, fmt.Errorf("%w: %s", ErrInvalidDeepLink, raw)
	}
	resp.NotificationID = u.Host

	action := strings.TrimPrefix(u.EscapedPath(), "/")
	switch {
	case action == actionDefault:
		resp.Action = entity.NotificationAction{Kind: entity.NotificationActionDefault}
	case action == actionDismiss:
		resp.Action = entity.NotificationAction{Kind: entity.NotificationActionDismiss}
	case action == "" || strings.Contains(action, "/"):
		return "", resp, fmt.Errorf("%w: action %q", ErrInvalidDeepLink, action)
	default:
		id, err := url.PathUnescape(action)
		if err != nil {
			return "", resp, fmt.Errorf("%w: %w", ErrInvalidDeepLink, err)
		}
		resp.Action = entity.NotificationAction{Kind: entity.NotificationActionOther, ID: id}
	}

	if u.RawQuery != "" {
		data, err := base64.URLEncoding.DecodeString(u.RawQuery)
		if err != nil {
			return "", resp, fmt.Errorf("%w: user info: %w", ErrInvalidDeepLink, err)
		}
		if err := json.Unmarshal(data, &resp.UserInfo); err != nil {
			return "", resp, fmt.Errorf("%w: user info: %w", ErrInvalidDeepLink, err)
		}
	}
	return u.Scheme, resp, nil
}
