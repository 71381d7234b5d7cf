package config

// Profile holds connection settings for a single named Tor controller.
// It lets one profile file describe several Tor processes (a system
// daemon on 9051, a browser bundle on 9151) without repeating flags.
type Profile struct {
	// Host is the control-port address.
	Host string `yaml:"host,omitempty"`

	// Port is the control port.
	Port int `yaml:"port,omitempty"`

	// Cookie is the authentication token, passed through verbatim.
	Cookie string `yaml:"cookie,omitempty"`

	// Nameserver is a "host:port" to send DNSEL queries to directly.
	Nameserver string `yaml:"nameserver,omitempty"`
}

// File represents the structure of the .torlook profile file.
type File struct {
	// Controllers maps profile names to controller settings.
	Controllers map[string]Profile `yaml:"controllers,omitempty"`

	// Defaults contains settings applied to every profile unless
	// overridden in the named profile.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// GetProfile returns the settings for a named profile, merged over the
// file's defaults. An unknown name yields the defaults alone.
func (f *File) GetProfile(name string) Profile {
	result := f.Defaults

	if profile, ok := f.Controllers[name]; ok {
		if profile.Host != "" {
			result.Host = profile.Host
		}
		if profile.Port != 0 {
			result.Port = profile.Port
		}
		if profile.Cookie != "" {
			result.Cookie = profile.Cookie
		}
		if profile.Nameserver != "" {
			result.Nameserver = profile.Nameserver
		}
	}
	return result
}
