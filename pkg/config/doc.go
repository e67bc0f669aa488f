// Package config defines the provisioning record and everything that gets a
// record into a trustworthy state: defaults, immutable updates, structural
// validation with go-playground/validator, a CUE schema generated from the
// option catalog, YAML/JSON/CUE file loading and fsnotify-driven reloads.
//
// # Record files
//
// A record file may omit any field; omitted fields keep their defaults:
//
//	username: webadmin
//	password: SecurePass123!
//	web_server: mern
//	database_type: mongodb
//	nodejs: true
//	yarn: true
//
// The same record in CUE:
//
//	web_server:    "mern"
//	database_type: "mongodb"
//	yarn:          true
//
// Category values outside the catalog are contract violations and surface
// as errdefs contract errors from Load, LoadFile and Validator.Validate.
package config
