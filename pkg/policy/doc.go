// Package policy evaluates advisory Rego policies against provisioning
// records using Open Policy Agent.
//
// Policies never block generation. Each policy module defines a "warn" set
// whose members are either strings or objects with "message", and
// optionally "field" and "severity" keys:
//
//	package tenbyte.policies.no_mongodb
//
//	import rego.v1
//
//	warn contains advisory if {
//		input.config.database_type == "mongodb"
//		advisory := {"field": "database_type", "message": "MongoDB is not backed up"}
//	}
//
// The input document is {"config": <record>, "limits": {...}}.
package policy
