package domain

// PrivilegedSession is the cross-tenant admin credential of one region.
// It is created once per region and only read afterwards.
type PrivilegedSession struct {
	region  Region
	account string
	token   string
}

func NewPrivilegedSession(region Region, account, token string) *PrivilegedSession {
	return &PrivilegedSession{region: region, account: account, token: token}
}

func (s *PrivilegedSession) Region() Region { return s.region }
func (s *PrivilegedSession) Account() string { return s.account }
func (s *PrivilegedSession) Token() string { return s.token }

// ScopedSession acts as exactly one tenant. It belongs to a single tenant
// fan-out and is dropped when that fan-out completes.
type ScopedSession struct {
	region     Region
	tenantID   string
	tenantName string
	token      string
}

func NewScopedSession(region Region, tenantID, tenantName, token string) *ScopedSession {
	return &ScopedSession{
		region:     region,
		tenantID:   tenantID,
		tenantName: tenantName,
		token:      token,
	}
}

func (s *ScopedSession) Region() Region { return s.region }
func (s *ScopedSession) TenantID() string { return s.tenantID }
func (s *ScopedSession) TenantName() string { return s.tenantName }
func (s *ScopedSession) Token() string { return s.token }
