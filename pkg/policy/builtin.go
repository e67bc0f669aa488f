package policy

// GetBuiltinPolicies returns all built-in policies.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		passwordLengthPolicy(),
		passwordQuotePolicy(),
		yamlEscapePolicy(),
		usernameShellSafePolicy(),
		yarnIgnoredPolicy(),
		rootLoginPolicy(),
	}
}

// passwordLengthPolicy flags short passwords.
func passwordLengthPolicy() Policy {
	return Policy{
		Name:        "password-length",
		Description: "Passwords should be at least the minimum length",
		Severity:    SeverityWarning,
		Enabled:     true,
		Builtin:     true,
		Rego: `package tenbyte.policies.password_length

import rego.v1

warn contains advisory if {
	pw := input.config.password
	count(pw) > 0
	count(pw) < input.limits.min_password_length
	advisory := {
		"field": "password",
		"message": sprintf("Password must be at least %d characters", [input.limits.min_password_length]),
	}
}
`,
	}
}

// passwordQuotePolicy flags passwords that terminate the single-quoted
// --password argument early.
func passwordQuotePolicy() Policy {
	return Policy{
		Name:        "password-quote",
		Description: "Passwords containing a single quote break the generated shell command",
		Severity:    SeverityWarning,
		Enabled:     true,
		Builtin:     true,
		Rego: `package tenbyte.policies.password_quote

import rego.v1

warn contains advisory if {
	contains(input.config.password, "'")
	advisory := {
		"field": "password",
		"message": "Password contains a single quote; the --password argument will not survive the shell",
	}
}
`,
	}
}

// yamlEscapePolicy flags values that break the double-quoted runcmd scalar.
func yamlEscapePolicy() Policy {
	return Policy{
		Name:        "yaml-escape",
		Description: "Double quotes and backslashes corrupt the runcmd entry",
		Severity:    SeverityWarning,
		Enabled:     true,
		Builtin:     true,
		Rego: `package tenbyte.policies.yaml_escape

import rego.v1

unsafe(value) if contains(value, "\"")

unsafe(value) if contains(value, "\\")

warn contains advisory if {
	some field in ["username", "password"]
	unsafe(input.config[field])
	advisory := {
		"field": field,
		"message": sprintf("%s contains a double quote or backslash; the generated runcmd entry will not parse as intended", [field]),
	}
}
`,
	}
}

// usernameShellSafePolicy flags usernames that need shell quoting.
func usernameShellSafePolicy() Policy {
	return Policy{
		Name:        "username-shell-safe",
		Description: "Usernames are passed unquoted and should be shell-safe",
		Severity:    SeverityWarning,
		Enabled:     true,
		Builtin:     true,
		Rego: `package tenbyte.policies.username_shell_safe

import rego.v1

warn contains advisory if {
	name := input.config.username
	name != ""
	not regex.match("^[A-Za-z0-9._-]+$", name)
	advisory := {
		"field": "username",
		"message": sprintf("Username '%s' contains characters that are not shell-safe", [name]),
	}
}
`,
	}
}

// yarnIgnoredPolicy notes a yarn selection that will not be emitted.
func yarnIgnoredPolicy() Policy {
	return Policy{
		Name:        "yarn-ignored",
		Description: "Yarn is only installed with the MERN stack",
		Severity:    SeverityInfo,
		Enabled:     true,
		Builtin:     true,
		Rego: `package tenbyte.policies.yarn_ignored

import rego.v1

warn contains advisory if {
	input.config.yarn
	input.config.web_server != "mern"
	advisory := {
		"field": "yarn",
		"message": sprintf("Yarn is only installed with the MERN stack; ignored for %s", [input.config.web_server]),
	}
}
`,
	}
}

// rootLoginPolicy notes that the template always enables root SSH login.
func rootLoginPolicy() Policy {
	return Policy{
		Name:        "root-login",
		Description: "The generated script enables root SSH login",
		Severity:    SeverityInfo,
		Enabled:     true,
		Builtin:     true,
		Rego: `package tenbyte.policies.root_login

import rego.v1

warn contains advisory if {
	input.config
	advisory := {"message": "The generated script sets PermitRootLogin yes"}
}
`,
	}
}
