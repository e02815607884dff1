package models

import "time"

// Session is the offline Admin API access granted by a shop at install time
type Session struct {
	Shop        string    `bson:"_id" json:"shop"`
	AccessToken string    `bson:"access_token" json:"-"`
	Scope       string    `bson:"scope" json:"scope"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
