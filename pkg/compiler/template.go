package compiler

import (
	_ "embed"
	"strings"
)

// Fixed paths used by the generated script.
const (
	// BinaryPath is where the script installs tenbyte-cloud-init.
	BinaryPath = "/usr/local/bin/tenbyte-cloud-init"

	// BinaryURL is where the script downloads tenbyte-cloud-init from.
	BinaryURL = "https://github.com/vidinfra/tenbyte-init/raw/main/tenbyte-cloud-init-linux-amd64"

	// InitPrefix precedes the assembled argument list.
	InitPrefix = BinaryPath + " init "

	// Header is the first line cloud-init requires for user-data.
	Header = "#cloud-config"

	placeholder = "${INIT_COMMAND}"
)

//go:embed templates/cloud-config.yaml
var templateSource string

// script is the provisioning template with one substitution point.
// The file's trailing newline is not part of the artifact.
var script = strings.TrimSuffix(templateSource, "\n")

// render embeds initCommand at the template's substitution point.
func render(initCommand string) string {
	return strings.Replace(script, placeholder, initCommand, 1)
}
