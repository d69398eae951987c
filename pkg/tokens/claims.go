package tokens

import "github.com/golang-jwt/jwt/v5"

// Claims is the identity carried by an access token.
type Claims struct {
	Subject    string
	Admin      bool
	AdminLevel int
}

// AccessClaims is the JWT payload: sub, admin, admin_level and exp.
type AccessClaims struct {
	Admin      bool `json:"admin"`
	AdminLevel int  `json:"admin_level"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) Identity() Claims {
	return Claims{
		Subject:    c.Subject,
		Admin:      c.Admin,
		AdminLevel: c.AdminLevel,
	}
}
