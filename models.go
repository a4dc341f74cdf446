package teamkit

import (
	"time"

	"github.com/uptrace/bun"
)

// Team is the aggregate root. It owns roles, groups, memberships,
// ability grants, and invitations; deleting a team purges all of them.
//
// The relation slices are populated by Service.GetTeam (eager loading is
// part of the construction contract) and are nil on bare rows.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	OwnerID   string    `bun:"owner_id,notnull"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Roles       []*Role       `bun:"-"`
	Groups      []*Group      `bun:"-"`
	Memberships []*Membership `bun:"-"`
	Abilities   []*Ability    `bun:"-"`

	// Indexed for fast lookup, built by index()
	byRoleID    map[string]*Role
	byRoleName  map[string]*Role
	byGroupCode map[string]*Group
	byMemberID  map[string]*Membership
}

// Membership links a user to a team. The (team_id, user_id) pair is
// unique per team. RoleID is empty for members without a role.
type Membership struct {
	bun.BaseModel `bun:"table:team_members,alias:tm"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	TeamID    string    `bun:"team_id,notnull"`
	UserID    string    `bun:"user_id,notnull"`
	RoleID    string    `bun:"role_id,nullzero"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Role is a named bundle of capabilities owned by a team. The name is
// unique within the team. Capabilities is populated when the role is
// loaded through the service.
type Role struct {
	bun.BaseModel `bun:"table:team_roles,alias:tr"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	TeamID    string    `bun:"team_id,notnull"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`

	Capabilities []*Capability `bun:"-"`
}

// HasCapability reports whether the role's capability set contains code.
func (r *Role) HasCapability(code string) bool {
	for _, c := range r.Capabilities {
		if c.Code == code {
			return true
		}
	}
	return false
}

// CapabilityCodes returns the role's capability codes.
func (r *Role) CapabilityCodes() []string {
	codes := make([]string, 0, len(r.Capabilities))
	for _, c := range r.Capabilities {
		codes = append(codes, c.Code)
	}
	return codes
}

// Capability is an atomic named permission, identified by a globally
// unique code. Capabilities are shared vocabulary across teams and roles
// and outlive any single role that references them.
type Capability struct {
	bun.BaseModel `bun:"table:capabilities,alias:c"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Code      string    `bun:"code,notnull,unique"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// RoleCapability links a role to a capability. Deleting a role removes
// its links; the capability rows persist.
type RoleCapability struct {
	bun.BaseModel `bun:"table:role_capabilities,alias:rc"`

	ID           string `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	RoleID       string `bun:"role_id,notnull"`
	CapabilityID string `bun:"capability_id,notnull"`
}

// Ability is a direct action grant attached to a team, optionally scoped
// to one entity instance. Empty entity fields mean a team-wide grant.
type Ability struct {
	bun.BaseModel `bun:"table:team_abilities,alias:ta"`

	ID         string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	TeamID     string    `bun:"team_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull,default:''"`
	EntityID   string    `bun:"entity_id,notnull,default:''"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// IsTeamWide reports whether the grant applies to every entity.
func (a *Ability) IsTeamWide() bool {
	return a.EntityType == "" && a.EntityID == ""
}

// Entity returns the entity the grant is scoped to, zero if team-wide.
func (a *Ability) Entity() Entity {
	return Entity{Type: a.EntityType, ID: a.EntityID}
}

// Matches reports whether this grant authorizes action on entity.
// A team-wide grant matches any entity (including none); a scoped grant
// matches only the exact entity it was created for.
func (a *Ability) Matches(action string, entity Entity) bool {
	if a.Action != action {
		return false
	}
	if a.IsTeamWide() {
		return true
	}
	return a.EntityType == entity.Type && a.EntityID == entity.ID
}

// Group is an organizational sub-partition of a team's membership,
// identified by a per-team code. Groups carry no rights semantics.
type Group struct {
	bun.BaseModel `bun:"table:team_groups,alias:tg"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	TeamID    string    `bun:"team_id,notnull"`
	Code      string    `bun:"code,notnull"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Invitation is a pending request for a user to join a team. Accepting
// creates a membership and deletes the row; declining deletes the row.
type Invitation struct {
	bun.BaseModel `bun:"table:team_invitations,alias:ti"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	TeamID    string    `bun:"team_id,notnull"`
	Email     string    `bun:"email,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Entity identifies a specific resource instance an ability grant or
// permission check targets.
type Entity struct {
	Type string // e.g. "Post"
	ID   string // e.g. "5"
}

// NewEntity creates a new Entity.
func NewEntity(entityType, entityID string) Entity {
	return Entity{Type: entityType, ID: entityID}
}

// String returns a string representation of the entity.
func (e Entity) String() string {
	return e.Type + ":" + e.ID
}

// IsZero reports whether no entity is set.
func (e Entity) IsZero() bool {
	return e.Type == "" && e.ID == ""
}

// RoleBinding is the result of resolving a user's role in a team. It is
// either the Owner sentinel (always-allow, not a stored role) or a named
// role. The zero value means no binding.
type RoleBinding struct {
	owner bool
	role  *Role
}

// OwnerBinding returns the Owner sentinel binding.
func OwnerBinding() RoleBinding {
	return RoleBinding{owner: true}
}

// NamedBinding returns a binding for a stored role.
func NamedBinding(role *Role) RoleBinding {
	return RoleBinding{role: role}
}

// IsOwner reports whether the binding is the Owner sentinel.
func (b RoleBinding) IsOwner() bool {
	return b.owner
}

// Role returns the named role and true, or nil and false for the Owner
// sentinel and the zero binding.
func (b RoleBinding) Role() (*Role, bool) {
	if b.role == nil {
		return nil, false
	}
	return b.role, true
}

// Name returns the role name, or "owner" for the Owner sentinel.
func (b RoleBinding) Name() string {
	if b.owner {
		return "owner"
	}
	if b.role != nil {
		return b.role.Name
	}
	return ""
}

// Allows reports whether the binding grants a capability. The Owner
// sentinel allows everything.
func (b RoleBinding) Allows(code string) bool {
	if b.owner {
		return true
	}
	if b.role != nil {
		return b.role.HasCapability(code)
	}
	return false
}

// index builds the aggregate lookup maps. Called after eager loading;
// later roles/groups never shadow earlier ones with the same key, so
// code lookups return the first match.
func (t *Team) index() {
	t.byRoleID = make(map[string]*Role, len(t.Roles))
	t.byRoleName = make(map[string]*Role, len(t.Roles))
	for _, r := range t.Roles {
		if _, ok := t.byRoleID[r.ID]; !ok {
			t.byRoleID[r.ID] = r
		}
		if _, ok := t.byRoleName[r.Name]; !ok {
			t.byRoleName[r.Name] = r
		}
	}
	t.byGroupCode = make(map[string]*Group, len(t.Groups))
	for _, g := range t.Groups {
		if _, ok := t.byGroupCode[g.Code]; !ok {
			t.byGroupCode[g.Code] = g
		}
	}
	t.byMemberID = make(map[string]*Membership, len(t.Memberships))
	for _, m := range t.Memberships {
		if _, ok := t.byMemberID[m.UserID]; !ok {
			t.byMemberID[m.UserID] = m
		}
	}
}

// MemberIDs returns the user IDs of all members, owner excluded unless
// a membership row (incorrectly) exists for the owner.
func (t *Team) MemberIDs() []string {
	ids := make([]string, 0, len(t.Memberships))
	for _, m := range t.Memberships {
		ids = append(ids, m.UserID)
	}
	return ids
}

// AllUserIDs returns the union of member user IDs and the owner, with no
// duplicates even if the owner is also present in the membership set.
func (t *Team) AllUserIDs() []string {
	seen := make(map[string]bool, len(t.Memberships)+1)
	ids := make([]string, 0, len(t.Memberships)+1)
	if t.OwnerID != "" && !seen[t.OwnerID] {
		seen[t.OwnerID] = true
		ids = append(ids, t.OwnerID)
	}
	for _, m := range t.Memberships {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		ids = append(ids, m.UserID)
	}
	return ids
}

// HasUserID reports whether the user is a member or the owner.
func (t *Team) HasUserID(userID string) bool {
	if userID == "" {
		return false
	}
	if userID == t.OwnerID {
		return true
	}
	if t.byMemberID != nil {
		_, ok := t.byMemberID[userID]
		return ok
	}
	for _, m := range t.Memberships {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// HasUser reports whether u is a member or owns the team. Ownership of
// multiple teams is tracked on the user side, so a User implementing
// TeamOwner is consulted in addition to the team's own owner reference.
func (t *Team) HasUser(u User) bool {
	if u == nil {
		return false
	}
	if t.HasUserID(u.UserID()) {
		return true
	}
	if o, ok := u.(TeamOwner); ok {
		return o.OwnsTeam(t.ID)
	}
	return false
}

// HasRoles reports whether the team has at least one role.
func (t *Team) HasRoles() bool {
	return len(t.Roles) > 0
}

// Group returns the first group matching code, or nil if none.
func (t *Team) Group(code string) *Group {
	if t.byGroupCode != nil {
		return t.byGroupCode[code]
	}
	for _, g := range t.Groups {
		if g.Code == code {
			return g
		}
	}
	return nil
}

// FindRoleByID returns the team's role with the given ID, or nil.
func (t *Team) FindRoleByID(id string) *Role {
	if t.byRoleID != nil {
		return t.byRoleID[id]
	}
	for _, r := range t.Roles {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// FindRoleByName returns the team's role with the given name, or nil.
// Names match exactly; there is no id fallback.
func (t *Team) FindRoleByName(name string) *Role {
	if t.byRoleName != nil {
		return t.byRoleName[name]
	}
	for _, r := range t.Roles {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// UserRole resolves the user's role binding in the team. The owner gets
// the Owner sentinel. Non-members, and members whose membership carries
// no role, get the zero binding and ok=false.
func (t *Team) UserRole(userID string) (RoleBinding, bool) {
	if userID == "" {
		return RoleBinding{}, false
	}
	if userID == t.OwnerID {
		return OwnerBinding(), true
	}
	var m *Membership
	if t.byMemberID != nil {
		m = t.byMemberID[userID]
	} else {
		for _, cand := range t.Memberships {
			if cand.UserID == userID {
				m = cand
				break
			}
		}
	}
	if m == nil || m.RoleID == "" {
		return RoleBinding{}, false
	}
	role := t.FindRoleByID(m.RoleID)
	if role == nil {
		return RoleBinding{}, false
	}
	return NamedBinding(role), true
}
