// Package teamkit provides team-scoped role and permission management.
//
// TeamKit models teams (organizations/tenants), their members, named
// roles, fine-grained capabilities, organizational groups, entity-scoped
// ability grants, and invitations, and answers authorization questions
// of the form "can this user do X in this team, optionally on this
// entity?".
//
// # Core Concepts
//
// Team: The aggregate root. A team has exactly one owner, who is never a
// membership row and always passes every permission check.
//
// Role: A named, team-owned bundle of capabilities. A member carries at
// most one role per team.
//
// Capability: An atomic named permission, identified by a code like
// "edit-post" or "invite-user". Capabilities are global vocabulary,
// shared across teams and roles, and created on first use.
//
// Ability: A direct grant of an action to a team, optionally scoped to a
// single entity instance. A grant with an entity applies only to checks
// that target that exact entity; a grant without one is team-wide.
//
// Group: An organizational sub-partition of a team's membership,
// identified by a per-team code. Groups carry no rights semantics.
//
// # Authorization Resolution
//
// A check for (user, team, capability, optional entity) resolves as:
//
//  1. User is the team owner: allow, unconditionally.
//  2. User is not a member: deny.
//  3. The member's role grants the capability: allow.
//  4. A team ability grant matches the action and entity: allow.
//  5. Deny.
//
// Role capabilities and ability grants are a disjunction; neither takes
// precedence over the other.
//
// # Basic Usage
//
//	// 1. Create the service
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := teamkit.NewService(db)
//
//	// 2. Run migrations
//	teamkit.NewMigrationService(service).RunMigrations(ctx)
//
//	// 3. Build a team
//	team, _ := service.CreateTeam(ctx, ownerID, "Acme")
//	service.AddRole(ctx, team.ID, "editor", []string{"edit-post", "publish-post"})
//	service.AddMember(ctx, team.ID, userID, "editor")
//
//	// 4. Check permissions
//	if service.HasCapability(ctx, team.ID, userID, "edit-post") {
//	    // allowed
//	}
//
//	// Entity-scoped grants
//	service.GrantAbility(ctx, team.ID, "edit-post", teamkit.NewEntity("Post", "5"))
//	service.HasCapability(ctx, team.ID, userID, "edit-post", teamkit.NewEntity("Post", "5"))
//
// # Eager Loading
//
// Service.GetTeam always materializes a team together with its roles
// (capabilities attached), groups, memberships, and ability grants.
// The in-memory methods on Team (AllUserIDs, UserRole, FindRoleByName,
// Group, ...) are only meaningful on a team loaded this way. There is no
// lazy loading; callers needing fresher state reload the team.
//
// # Middleware Usage
//
//	mw := teamkit.NewMiddleware(service)
//
//	router.With(mw.RequireMember(teamkit.TeamFromParam("teamID"))).
//	    Get("/teams/{teamID}", showTeamHandler)
//
//	router.With(mw.RequireCapability("edit-post", teamkit.TeamFromParam("teamID"))).
//	    Post("/teams/{teamID}/posts", createPostHandler)
//
// # Error Model
//
// Lookup misses surface as sentinel signals, never panics: pure finders
// (FindRoleByName, Group, UserRole) report misses through nil values or
// ok booleans, and mutating operations return wrapped sentinel errors
// (ErrRoleNotFound, ErrGroupNotFound, ...) recognizable with errors.Is.
// A denied permission check is an ordinary false, not an error. Only
// storage failures propagate as errors.
package teamkit
