package config

import (
	"encoding/json"
	"os"
)

// Environment variables provided by the hosting platform. Their presence is
// the signal that the process runs in a managed deployment; without them the
// service stays out of discovery entirely.
const (
	EnvApplication   = "VCAP_APPLICATION"
	EnvServices      = "VCAP_SERVICES"
	EnvDeploymentTag = "FREIGHTWAY_ENV"
)

// AppMetadata is the deployment metadata the platform injects per instance.
type AppMetadata struct {
	ApplicationName string   `json:"application_name"`
	ApplicationURIs []string `json:"application_uris"`
	SpaceName       string   `json:"space_name"`
	InstanceIndex   int      `json:"instance_index"`
}

// AdvertiseURI returns the externally reachable address for this instance,
// or "" when the platform provided none.
func (m *AppMetadata) AdvertiseURI() string {
	if m == nil || len(m.ApplicationURIs) == 0 {
		return ""
	}
	return m.ApplicationURIs[0]
}

// PlatformMetadata parses the platform application metadata from the process
// environment. The second return is false when the metadata is absent or
// unparseable, which callers treat as "not running on the platform".
func PlatformMetadata() (*AppMetadata, bool) {
	raw := os.Getenv(EnvApplication)
	if raw == "" {
		return nil, false
	}
	var meta AppMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, false
	}
	return &meta, true
}

// RegistryCredentials are the bound discovery-service credentials.
type RegistryCredentials struct {
	URL       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

type boundService struct {
	Credentials RegistryCredentials `json:"credentials"`
}

// DiscoveryCredentials extracts the first bound service-discovery credential
// set from the platform service bindings.
func DiscoveryCredentials() (*RegistryCredentials, bool) {
	raw := os.Getenv(EnvServices)
	if raw == "" {
		return nil, false
	}
	var services map[string][]boundService
	if err := json.Unmarshal([]byte(raw), &services); err != nil {
		return nil, false
	}
	bindings, ok := services["service_discovery"]
	if !ok || len(bindings) == 0 {
		return nil, false
	}
	return &bindings[0].Credentials, true
}

// DeploymentEnv returns the deployment environment tag, defaulting to the
// configured environment name when the variable is unset.
func DeploymentEnv(fallback string) string {
	if env := os.Getenv(EnvDeploymentTag); env != "" {
		return env
	}
	return fallback
}
