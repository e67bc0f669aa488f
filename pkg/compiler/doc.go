// Package compiler renders provisioning records into #cloud-config
// user-data.
//
// The init command line is assembled from a declarative rule table
// (DefaultRules): each rule pairs a predicate over the record with the
// arguments it contributes, and rules run in declared order. The command
// is then embedded at the single substitution point of a fixed template:
//
//	#cloud-config
//	package_update: true
//	...
//	runcmd:
//	  - [ bash, -lc, "... apt-get autoremove -y" ]
//	  - [ bash, -lc, "wget -O /usr/local/bin/tenbyte-cloud-init ..." ]
//	  - [ bash, -lc, "chmod +x /usr/local/bin/tenbyte-cloud-init" ]
//	  - [ bash, -lc, "/usr/local/bin/tenbyte-cloud-init init --web-server nginx --database-type mysql" ]
//	  - [ bash, -lc, "echo 'PermitRootLogin yes' > ..." ]
//	  - [ bash, -lc, "systemctl restart ssh || ..." ]
//
// Compilation is pure: no I/O, no shared mutable state. Inspect and Verify
// parse a generated script back and check its directive ordering.
//
// Usernames are passed unquoted and passwords are wrapped in single quotes
// without escaping. A password containing a single quote, or any value
// containing a double quote or backslash, produces a script that will not
// run as intended; the policy package reports these as advisories.
package compiler
