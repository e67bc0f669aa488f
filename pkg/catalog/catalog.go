// Package catalog holds the fixed option sets offered for the categorical
// provisioning fields (web server family and database engine).
package catalog

// Category identifies a categorical configuration field.
type Category string

const (
	// CategoryWebServer is the web server family selection.
	CategoryWebServer Category = "web_server"

	// CategoryDatabase is the database engine selection.
	CategoryDatabase Category = "database"
)

// Web server values.
const (
	WebServerNginx         = "nginx"
	WebServerApache2       = "apache2"
	WebServerOpenLiteSpeed = "openlitespeed"
	WebServerMERN          = "mern"
)

// Database values.
const (
	DatabaseMySQL   = "mysql"
	DatabaseMariaDB = "mariadb"
	DatabaseMongoDB = "mongodb"
)

// Descriptor describes a single selectable option.
type Descriptor struct {
	// Value is the machine value passed to tenbyte-cloud-init.
	Value string `json:"value" yaml:"value"`

	// Label is the display label.
	Label string `json:"label" yaml:"label"`

	// Description is a one-line human description.
	Description string `json:"description" yaml:"description"`
}

var webServers = [...]Descriptor{
	{Value: WebServerNginx, Label: "Nginx", Description: "High-performance web server"},
	{Value: WebServerApache2, Label: "Apache2", Description: "Feature-rich HTTP server"},
	{Value: WebServerOpenLiteSpeed, Label: "OpenLiteSpeed", Description: "High-performance LiteSpeed server"},
	{Value: WebServerMERN, Label: "MERN Stack", Description: "MongoDB, Express, React, Node.js"},
}

var databases = [...]Descriptor{
	{Value: DatabaseMySQL, Label: "MySQL", Description: "Popular relational database"},
	{Value: DatabaseMariaDB, Label: "MariaDB", Description: "MySQL-compatible database"},
	{Value: DatabaseMongoDB, Label: "MongoDB", Description: "NoSQL document database"},
}

// Categories returns all known categories in display order.
func Categories() []Category {
	return []Category{CategoryWebServer, CategoryDatabase}
}

// WebServers returns the web server options in display order.
func WebServers() []Descriptor {
	out := make([]Descriptor, len(webServers))
	copy(out, webServers[:])
	return out
}

// Databases returns the database options in display order.
func Databases() []Descriptor {
	out := make([]Descriptor, len(databases))
	copy(out, databases[:])
	return out
}

// List returns the options for a category, or nil for an unknown category.
func List(category Category) []Descriptor {
	switch category {
	case CategoryWebServer:
		return WebServers()
	case CategoryDatabase:
		return Databases()
	default:
		return nil
	}
}

// Values returns the machine values of a category in display order.
func Values(category Category) []string {
	descs := List(category)
	values := make([]string, len(descs))
	for i, d := range descs {
		values[i] = d.Value
	}
	return values
}

// Find looks up a descriptor by machine value.
// A miss means the value did not originate from the catalog.
func Find(category Category, value string) (Descriptor, bool) {
	for _, d := range List(category) {
		if d.Value == value {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Contains reports whether value is a valid option for category.
func Contains(category Category, value string) bool {
	_, ok := Find(category, value)
	return ok
}

// Index returns the display position of value within category, or -1.
func Index(category Category, value string) int {
	for i, d := range List(category) {
		if d.Value == value {
			return i
		}
	}
	return -1
}

// ParseCategory maps user-facing spellings onto a Category.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "web_server", "web-server", "webserver", "web":
		return CategoryWebServer, true
	case "database", "database-type", "database_type", "db":
		return CategoryDatabase, true
	default:
		return "", false
	}
}
