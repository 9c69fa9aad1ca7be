// Package profiles reads the AWS shared config file, to fill in what wasn't
// given on the command line
package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/vaughan0/go-ini"
)

// Keys read from a profile
const (
	KeyMFASerial       = "mfa_serial"
	KeyRegion          = "region"
	KeyDurationSeconds = "duration_seconds"
	KeyRoleSessionName = "role_session_name"
	KeySourceProfile   = "source_profile"
)

const fallbackProfile = "default"

type Profiles map[string]map[string]string

// ConfigFile returns $AWS_CONFIG_FILE, or ~/.aws/config
func ConfigFile() (string, error) {
	if file := os.Getenv("AWS_CONFIG_FILE"); file != "" {
		return homedir.Expand(file)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".aws", "config"), nil
}

// Load parses file. A missing file has no profiles.
func Load(file string) (Profiles, error) {
	if _, err := os.Stat(file); os.IsNotExist(err) {
		log.Debugf("No config file at %s", file)
		return Profiles{}, nil
	}

	log.Debugf("Parsing config file %s", file)
	f, err := ini.LoadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing config file %q", file)
	}

	profiles := Profiles{}
	for sectionName, section := range f {
		profiles[strings.TrimPrefix(sectionName, "profile ")] = section
	}

	return profiles, nil
}

// SourceProfile returns either the defined source_profile or p if none exists
func (p Profiles) SourceProfile(profile string) string {
	if conf, ok := p[profile]; ok {
		if source := conf[KeySourceProfile]; source != "" {
			return source
		}
	}
	return profile
}

// GetValue looks configKey up in profile, then its source_profile, then the
// default profile. It returns the value and the profile it was found in.
func (p Profiles) GetValue(profile string, configKey string) (string, string, error) {
	configValue, ok := p[profile][configKey]
	if ok {
		return configValue, profile, nil
	}

	// Lookup from the `source_profile`, if it exists
	source, ok := p[profile][KeySourceProfile]
	if ok {
		configValue, ok := p[source][configKey]
		if ok {
			return configValue, source, nil
		}
	}

	configValue, ok = p[fallbackProfile][configKey]
	if ok {
		return configValue, fallbackProfile, nil
	}

	return "", "", fmt.Errorf("could not find %s in %s, source profile, or %s", configKey, profile, fallbackProfile)
}
