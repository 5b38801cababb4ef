package domain

// User is the slice of the externally owned identity record this system
// touches. UID is the raw scan payload; no validation ties it to a real
// user before lookup.
type User struct {
	UID      string `json:"uid" bson:"_id"`
	LoggedIn bool   `json:"logged_in" bson:"logged_in"`
}
