package common

// Keys used in the local key-value store. They mirror the layout the mobile
// app kept in device storage: the three session keys are independently
// readable, and the whole session snapshot is additionally stored under a
// namespaced root key (see SessionStateKey).
const (
	AccessTokenKey = "access_token"
	UserDataKey    = "user_data"
	IsLoggedInKey  = "is_logged_in"
)

// SessionStateKey builds the root key under which the compound session
// snapshot is persisted for restart rehydration.
func SessionStateKey(namespace string) string {
	return "persist:" + namespace
}
