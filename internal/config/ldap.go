package config

import "fmt"

// LDAPConfig is the optional LDAP authentication set consumed by the web
// layer. It follows the soft conditional-requirement policy: LDAP=true with
// incomplete companion fields downgrades to disabled with a warning, so a
// misconfigured directory integration never prevents the process from
// starting.
type LDAPConfig struct {
	Enabled bool

	ServerURI    string
	BindDN       string
	BindPassword string
	UserBase     string
	UserFilter   string

	UsernameAttr  string
	FirstnameAttr string
	LastnameAttr  string
	EmailAttr     string

	CreateSuperuser bool
}

// NewLDAPConfig constructs and validates the LDAP set from overrides.
func NewLDAPConfig(v Values, logger Logger) (*LDAPConfig, error) {
	enabled, err := v.Bool("LDAP", false)
	if err != nil {
		return nil, err
	}
	createSuperuser, err := v.Bool("LDAP_CREATE_SUPERUSER", false)
	if err != nil {
		return nil, err
	}

	c := &LDAPConfig{
		Enabled:         enabled,
		ServerURI:       v.String("LDAP_SERVER_URI", ""),
		BindDN:          v.String("LDAP_BIND_DN", ""),
		BindPassword:    v.String("LDAP_BIND_PASSWORD", ""),
		UserBase:        v.String("LDAP_USER_BASE", ""),
		UserFilter:      v.String("LDAP_USER_FILTER", ""),
		UsernameAttr:    v.String("LDAP_USERNAME_ATTR", "uid"),
		FirstnameAttr:   v.String("LDAP_FIRSTNAME_ATTR", "givenName"),
		LastnameAttr:    v.String("LDAP_LASTNAME_ATTR", "sn"),
		EmailAttr:       v.String("LDAP_EMAIL_ATTR", "mail"),
		CreateSuperuser: createSuperuser,
	}

	if err := c.Validate(logger); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate runs the cross-field invariants. It is a post-construction hook:
// all fields carry their raw values before any invariant is checked.
func (c *LDAPConfig) Validate(logger Logger) error {
	enabled, err := CheckGroup("ldap", c.Enabled, SeveritySoft, logger,
		Requirement{Field: "LDAP_SERVER_URI", Value: c.ServerURI},
		Requirement{Field: "LDAP_BIND_DN", Value: c.BindDN},
		Requirement{Field: "LDAP_BIND_PASSWORD", Value: c.BindPassword},
		Requirement{Field: "LDAP_USER_BASE", Value: c.UserBase},
		Requirement{Field: "LDAP_USER_FILTER", Value: c.UserFilter},
	)
	if err != nil {
		return err
	}
	c.Enabled = enabled
	return nil
}

// AuthenticationBackends returns the backend list the web layer should use,
// ordered so local accounts still work when the directory is unreachable.
func (c *LDAPConfig) AuthenticationBackends() []string {
	backends := []string{"warden.auth.backends.ModelBackend"}
	if c.Enabled {
		backends = append(backends, "warden.auth.backends.LDAPBackend")
	}
	return backends
}

// UserSearch returns the LDAP search filter descriptor for user lookups,
// or the empty string when LDAP is disabled.
func (c *LDAPConfig) UserSearch() string {
	if !c.Enabled {
		return ""
	}
	return fmt.Sprintf("(&(%s=%%(user)s)%s)", c.UsernameAttr, c.UserFilter)
}

// UserAttrMap maps WARDEN account fields to directory attributes.
func (c *LDAPConfig) UserAttrMap() map[string]string {
	return map[string]string{
		"username":   c.UsernameAttr,
		"first_name": c.FirstnameAttr,
		"last_name":  c.LastnameAttr,
		"email":      c.EmailAttr,
	}
}
