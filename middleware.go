package teamkit

import (
	"net/http"
)

// Middleware provides HTTP middleware for team membership and capability
// checking. It is router-agnostic: team IDs come from pluggable
// extractors and the user ID from a pluggable function.
type Middleware struct {
	service      *Service
	getUserID    func(*http.Request) string
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := teamkit.NewMiddleware(service,
//	    teamkit.WithUserIDExtractor(func(r *http.Request) string {
//	        return r.Context().Value("user_id").(string)
//	    }),
//	)
func NewMiddleware(service *Service, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:      service,
		getUserID:    defaultGetUserID,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithUserIDExtractor sets a custom function to extract user ID from request.
func WithUserIDExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getUserID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetUserID(r *http.Request) string {
	return GetUserID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if IsUnauthorized(err) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if IsNotFound(err) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// TeamExtractor extracts a team ID from an HTTP request.
type TeamExtractor func(*http.Request) (teamID string, err error)

// TeamFromParam creates a TeamExtractor that reads the team ID from URL
// parameters. Compatible with chi, gorilla/mux, and standard library
// patterns.
//
// Example:
//
//	// For route /teams/{teamID}/posts
//	mw.RequireCapability("edit-post", teamkit.TeamFromParam("teamID"))
func TeamFromParam(paramName string) TeamExtractor {
	return func(r *http.Request) (string, error) {
		teamID := r.PathValue(paramName)
		if teamID == "" {
			// Try context (set by router middleware)
			if v := r.Context().Value(paramName); v != nil {
				if s, ok := v.(string); ok {
					teamID = s
				}
			}
		}
		if teamID == "" {
			return "", NewError(ErrTeamNotFound, "team ID not found in request")
		}
		return teamID, nil
	}
}

// TeamFromQuery creates a TeamExtractor that reads the team ID from
// query parameters.
//
// Example:
//
//	// For route /api/posts?team_id=team_123
//	mw.RequireMember(teamkit.TeamFromQuery("team_id"))
func TeamFromQuery(queryParam string) TeamExtractor {
	return func(r *http.Request) (string, error) {
		teamID := r.URL.Query().Get(queryParam)
		if teamID == "" {
			return "", NewError(ErrTeamNotFound, "team ID not found in query")
		}
		return teamID, nil
	}
}

// TeamFromHeader creates a TeamExtractor that reads the team ID from a
// header.
//
// Example:
//
//	// For header X-Team-ID: team_123
//	mw.RequireMember(teamkit.TeamFromHeader("X-Team-ID"))
func TeamFromHeader(headerName string) TeamExtractor {
	return func(r *http.Request) (string, error) {
		teamID := r.Header.Get(headerName)
		if teamID == "" {
			return "", NewError(ErrTeamNotFound, "team ID not found in header")
		}
		return teamID, nil
	}
}

// StaticTeam creates a TeamExtractor that always returns the same team.
func StaticTeam(teamID string) TeamExtractor {
	return func(r *http.Request) (string, error) {
		return teamID, nil
	}
}

func (m *Middleware) guard(extractor TeamExtractor, check func(*Checker) bool, denied string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				m.errorHandler(w, r, ErrNoUserID)
				return
			}

			teamID, err := extractor(r)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			checker, err := m.service.GetChecker(ctx, teamID, userID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			if !check(checker) {
				m.errorHandler(w, r, NewError(ErrUnauthorized, denied).
					WithTeam(teamID).
					WithUser(userID))
				return
			}

			ctx = WithChecker(ctx, checker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMember creates middleware that requires the user to be a team
// member or the owner.
//
// Example:
//
//	router.With(mw.RequireMember(teamkit.TeamFromParam("teamID"))).
//	    Get("/teams/{teamID}", showTeamHandler)
func (m *Middleware) RequireMember(extractor TeamExtractor) func(http.Handler) http.Handler {
	return m.guard(extractor, func(c *Checker) bool {
		return c.IsMember()
	}, "not a team member")
}

// RequireOwner creates middleware that requires the user to own the team.
func (m *Middleware) RequireOwner(extractor TeamExtractor) func(http.Handler) http.Handler {
	return m.guard(extractor, func(c *Checker) bool {
		return c.IsOwner()
	}, "not the team owner")
}

// RequireCapability creates middleware that requires a capability in the
// team.
//
// Example:
//
//	router.With(mw.RequireCapability("edit-post", teamkit.TeamFromParam("teamID"))).
//	    Post("/teams/{teamID}/posts", createPostHandler)
func (m *Middleware) RequireCapability(code string, extractor TeamExtractor) func(http.Handler) http.Handler {
	return m.guard(extractor, func(c *Checker) bool {
		return c.HasCapability(code)
	}, "missing required capability")
}

// RequireAnyCapability creates middleware that requires any of the
// specified capabilities.
func (m *Middleware) RequireAnyCapability(codes []string, extractor TeamExtractor) func(http.Handler) http.Handler {
	return m.guard(extractor, func(c *Checker) bool {
		return c.HasAnyCapability(codes)
	}, "missing required capability")
}

// RequireAllCapabilities creates middleware that requires every one of
// the specified capabilities.
func (m *Middleware) RequireAllCapabilities(codes []string, extractor TeamExtractor) func(http.Handler) http.Handler {
	return m.guard(extractor, func(c *Checker) bool {
		return c.HasAllCapabilities(codes)
	}, "missing required capability")
}

// LoadChecker creates middleware that loads the user's Checker into
// context without enforcing anything. Use this when permission checks
// happen in the handler.
//
// Example:
//
//	router.With(mw.LoadChecker(teamkit.TeamFromParam("teamID"))).
//	    Get("/teams/{teamID}/dashboard", dashboardHandler)
//
//	func dashboardHandler(w http.ResponseWriter, r *http.Request) {
//	    checker := teamkit.FromContext(r.Context())
//	    if checker != nil && checker.IsOwner() {
//	        // Show owner features
//	    }
//	}
func (m *Middleware) LoadChecker(extractor TeamExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := m.getUserID(r)
			if userID == "" {
				// No user, continue without checker
				next.ServeHTTP(w, r)
				return
			}

			teamID, err := extractor(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			checker, err := m.service.GetChecker(ctx, teamID, userID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithChecker(ctx, checker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
