package config

import "github.com/vidinfra/tenbyte-userdata/pkg/catalog"

// MinPasswordLength is the advisory minimum password length.
// Shorter passwords produce a warning, never an error.
const MinPasswordLength = 8

// Record is the provisioning intent for a single target server.
//
// Records are values: the With* methods return a modified copy so that
// every compile sees an immutable snapshot.
type Record struct {
	// Username is the login to create. Passed to tenbyte-cloud-init unquoted.
	Username string `json:"username" yaml:"username"`

	// Password is the login password. Passed single-quoted.
	Password string `json:"password" yaml:"password"`

	// WebServer is the web server family (see catalog.CategoryWebServer).
	WebServer string `json:"web_server" yaml:"web_server" validate:"required,catalog=web_server"`

	// Database is the database engine (see catalog.CategoryDatabase).
	Database string `json:"database_type" yaml:"database_type" validate:"required,catalog=database"`

	// InstallNodejs requests a Node.js install.
	InstallNodejs bool `json:"nodejs" yaml:"nodejs"`

	// InstallYarn requests a Yarn install. Only honored for the mern stack;
	// a stale true from an earlier selection is kept but never emitted.
	InstallYarn bool `json:"yarn" yaml:"yarn"`
}

// Default returns the record every session starts from.
func Default() Record {
	return Record{
		WebServer: catalog.WebServerNginx,
		Database:  catalog.DatabaseMySQL,
	}
}

// WithUsername returns a copy of r with Username set.
func (r Record) WithUsername(username string) Record {
	r.Username = username
	return r
}

// WithPassword returns a copy of r with Password set.
func (r Record) WithPassword(password string) Record {
	r.Password = password
	return r
}

// WithWebServer returns a copy of r with WebServer set.
func (r Record) WithWebServer(value string) Record {
	r.WebServer = value
	return r
}

// WithDatabase returns a copy of r with Database set.
func (r Record) WithDatabase(value string) Record {
	r.Database = value
	return r
}

// WithNodejs returns a copy of r with InstallNodejs set.
func (r Record) WithNodejs(install bool) Record {
	r.InstallNodejs = install
	return r
}

// WithYarn returns a copy of r with InstallYarn set.
func (r Record) WithYarn(install bool) Record {
	r.InstallYarn = install
	return r
}

// YarnApplies reports whether the yarn selection is meaningful for the
// current web server.
func (r Record) YarnApplies() bool {
	return r.WebServer == catalog.WebServerMERN
}

// PasswordTooShort reports whether a non-empty password is below
// MinPasswordLength characters.
func PasswordTooShort(password string) bool {
	n := len([]rune(password))
	return n > 0 && n < MinPasswordLength
}
