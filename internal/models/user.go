package models

// User is an account in the credential store.
// ID is an ObjectID hex string for the Mongo store and a UUID for the Postgres store.
type User struct {
	ID       string `json:"id"       bson:"-"`
	Name     string `json:"name"     bson:"name"`
	Username string `json:"username" bson:"username"`
	Password string `json:"-"        bson:"password"` // bcrypt hash, never serialize
}

// SignupRequest is the JSON or form body for POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SigninRequest is the JSON or form body for POST /signin.
type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
