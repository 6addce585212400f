package domain

// Role is the closed set of staff roles. Each role maps to exactly one fixed
// permission set; there are no per-user grants.
type Role string

const (
	RoleTeller  Role = "TELLER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// ValidRole reports whether the role is one of TELLER, MANAGER or ADMIN.
func ValidRole(role Role) bool {
	switch role {
	case RoleTeller, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Permission names a capability a role either grants in full or withholds.
type Permission string

const (
	PermCreateCustomer   Permission = "CREATE_CUSTOMER"
	PermOpenAccount      Permission = "OPEN_ACCOUNT"
	PermDeposit          Permission = "DEPOSIT"
	PermWithdraw         Permission = "WITHDRAW"
	PermViewBalance      Permission = "VIEW_BALANCE"
	PermViewTransactions Permission = "VIEW_TRANSACTIONS"
	PermCloseAccount     Permission = "CLOSE_ACCOUNT"
	PermOverrideLimit    Permission = "OVERRIDE_LIMIT"
	PermCreateUser       Permission = "CREATE_USER"
	PermDeleteUser       Permission = "DELETE_USER"
	PermViewAllAccounts  Permission = "VIEW_ALL_ACCOUNTS"
)

// PermissionsForRole builds a role's permission set. The roles form a strict
// superset chain: each case accumulates everything below it via fallthrough,
// so ADMIN ⊇ MANAGER ⊇ TELLER.
func PermissionsForRole(role Role) map[Permission]bool {
	perms := make(map[Permission]bool)
	switch role {
	case RoleAdmin:
		perms[PermCreateUser] = true
		perms[PermDeleteUser] = true
		perms[PermViewAllAccounts] = true
		fallthrough
	case RoleManager:
		perms[PermCloseAccount] = true
		perms[PermOverrideLimit] = true
		fallthrough
	case RoleTeller:
		perms[PermCreateCustomer] = true
		perms[PermOpenAccount] = true
		perms[PermDeposit] = true
		perms[PermWithdraw] = true
		perms[PermViewBalance] = true
		perms[PermViewTransactions] = true
	}
	return perms
}

// CredentialVerifier checks a plaintext password against an opaque one-way
// hash. The domain never stores or compares plaintext itself.
type CredentialVerifier func(password, hash string) bool

// User is an authenticatable principal. The permission set is computed once
// from the role at construction; the authenticated flag is transient state
// scoped to the identifier it was set for.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role

	permissions   map[Permission]bool
	authenticated bool
	verify        CredentialVerifier
}

// NewUser constructs a user with the permission set their role implies.
// The verifier is the credential collaborator used by Authenticate.
func NewUser(id, username, passwordHash string, role Role, verify CredentialVerifier) *User {
	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		permissions:  PermissionsForRole(role),
		verify:       verify,
	}
}

// Authenticate succeeds only when the identifier matches this user exactly
// and the password verifies against the stored hash. On success the
// authenticated flag is set; on failure no state changes.
func (u *User) Authenticate(id, password string) bool {
	if u.ID != id || u.verify == nil || !u.verify(password, u.PasswordHash) {
		return false
	}
	u.authenticated = true
	return true
}

// HasPermission reports whether the role grants the permission. It is always
// false for a mismatched identifier or an unauthenticated user.
func (u *User) HasPermission(id string, permission Permission) bool {
	if u.ID != id || !u.authenticated {
		return false
	}
	return u.permissions[permission]
}

// Logout clears the authenticated flag when the identifier matches.
func (u *User) Logout(id string) {
	if u.ID == id {
		u.authenticated = false
	}
}

// IsAuthenticated reports whether this user is currently authenticated under
// the given identifier.
func (u *User) IsAuthenticated(id string) bool {
	return u.ID == id && u.authenticated
}

// Permissions returns a snapshot of the role's permission set.
func (u *User) Permissions() []Permission {
	out := make([]Permission, 0, len(u.permissions))
	for p := range u.permissions {
		out = append(out, p)
	}
	return out
}
