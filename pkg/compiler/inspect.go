package compiler

import (
	"fmt"
	"strings"

	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
	"gopkg.in/yaml.v3"
)

// Document is the parsed shape of a generated script.
type Document struct {
	PackageUpdate  bool       `yaml:"package_update"`
	PackageUpgrade bool       `yaml:"package_upgrade"`
	Packages       []string   `yaml:"packages"`
	RunCmd         [][]string `yaml:"runcmd"`
}

// Stage names one runcmd entry of the template.
type Stage struct {
	Name   string
	Marker string
}

// Stages lists the runcmd entries in the order the target boot system
// must execute them: housekeeping, download, execution, SSH hardening.
var Stages = []Stage{
	{Name: "housekeeping", Marker: "apt-get autoremove -y"},
	{Name: "download", Marker: "wget -O " + BinaryPath + " " + BinaryURL},
	{Name: "chmod", Marker: "chmod +x " + BinaryPath},
	{Name: "init", Marker: InitPrefix},
	{Name: "permit-root-login", Marker: "PermitRootLogin yes"},
	{Name: "restart-ssh", Marker: "systemctl restart ssh"},
}

// RequiredPackages must be installed by the package directive.
var RequiredPackages = []string{"wget", "ca-certificates"}

// Inspect parses a generated script.
func Inspect(script string) (*Document, error) {
	if !strings.HasPrefix(script, Header+"\n") {
		return nil, errdefs.NewContractError("script does not start with "+Header, nil).
			WithCode(errdefs.ErrCodeStructure)
	}

	var doc Document
	if err := yaml.Unmarshal([]byte(script), &doc); err != nil {
		return nil, errdefs.NewContractError("script is not valid YAML", err).
			WithCode(errdefs.ErrCodeStructure)
	}
	return &doc, nil
}

// Verify checks the structural guarantees of a parsed script: package
// installation is requested, and each runcmd entry is a bash -lc directive
// in the fixed stage order.
func Verify(doc *Document) error {
	structural := func(format string, args ...interface{}) error {
		return errdefs.NewContractError(fmt.Sprintf(format, args...), nil).
			WithCode(errdefs.ErrCodeStructure)
	}

	if !doc.PackageUpdate || !doc.PackageUpgrade {
		return structural("package_update and package_upgrade must be enabled")
	}

	for _, pkg := range RequiredPackages {
		found := false
		for _, p := range doc.Packages {
			if p == pkg {
				found = true
				break
			}
		}
		if !found {
			return structural("package %s is missing", pkg)
		}
	}

	if len(doc.RunCmd) != len(Stages) {
		return structural("expected %d runcmd entries, got %d", len(Stages), len(doc.RunCmd))
	}

	for i, entry := range doc.RunCmd {
		if len(entry) != 3 || entry[0] != "bash" || entry[1] != "-lc" {
			return structural("runcmd[%d] is not a bash -lc directive", i)
		}
		stage := Stages[i]
		if !strings.Contains(entry[2], stage.Marker) {
			return structural("runcmd[%d] should be the %s step", i, stage.Name)
		}
	}

	if !strings.HasPrefix(doc.RunCmd[3][2], InitPrefix) {
		return structural("init step must invoke %s", InitPrefix)
	}

	return nil
}

// InitCommandOf returns the init invocation embedded in a parsed script.
func (d *Document) InitCommandOf() (string, bool) {
	for _, entry := range d.RunCmd {
		if len(entry) == 3 && strings.HasPrefix(entry[2], InitPrefix) {
			return entry[2], true
		}
	}
	return "", false
}
