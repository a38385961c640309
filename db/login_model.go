package db

import (
	"strings"

	"github.com/SaiNageswarS/go-api-boot/odm"
)

// LoginModel is a registered traveller, keyed by a hash of the normalized email.
type LoginModel struct {
	UserId         string `bson:"_id"`
	EmailId        string `bson:"email"`
	Username       string `bson:"username"`
	HashedPassword string `bson:"password"`
	CreatedOn      int64  `bson:"createdOn"`
}

func (m LoginModel) Id() string {
	if len(m.UserId) == 0 {
		m.UserId, _ = odm.HashedKey(strings.ToLower(strings.TrimSpace(m.EmailId)))
	}

	return m.UserId
}

func (m LoginModel) CollectionName() string { return "login" }
