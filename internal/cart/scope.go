package cart

import (
	"strconv"
	"strings"
)

// GuestKey is the scope key shared by anonymous browsing on a device.
const GuestKey = "cart"

// Scope identifies which cart an operation targets. DeviceID selects the
// storage partition; a zero UserID means guest.
type Scope struct {
	DeviceID string
	UserID   int64
}

func GuestScope(deviceID string) Scope {
	return Scope{DeviceID: strings.TrimSpace(deviceID)}
}

func UserScope(deviceID string, userID int64) Scope {
	return Scope{DeviceID: strings.TrimSpace(deviceID), UserID: userID}
}

// IsGuest reports whether the scope has no authenticated user.
func (s Scope) IsGuest() bool {
	return s.UserID <= 0
}

// Key returns "cart" for guests and "cart_<userId>" for users.
func (s Scope) Key() string {
	if s.IsGuest() {
		return GuestKey
	}
	return GuestKey + "_" + strconv.FormatInt(s.UserID, 10)
}

func (s Scope) String() string {
	return s.DeviceID + "/" + s.Key()
}
