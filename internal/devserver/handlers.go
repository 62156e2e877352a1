package devserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/client/models"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

var (
	errBadCredentials = echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
	errForbidden      = echo.NewHTTPError(http.StatusForbidden, "Not enough permissions")
)

func (s *Server) routes() {
	api := s.app.Group("/api")
	authed := s.authMiddleware

	auth := api.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/register", s.register)
	auth.POST("/forgot-password", s.forgotPassword)
	auth.POST("/reset-password/:token", s.resetPassword)
	auth.GET("/me", s.me, authed)

	students := api.Group("/students", authed, requireRole(models.RoleStudent))
	students.GET("/dashboard", s.studentDashboard)
	students.GET("/attendance/:course_id", s.studentAttendance)

	faculty := api.Group("/faculty", authed, requireRole(models.RoleFaculty, models.RoleAdmin))
	faculty.GET("/courses", s.facultyCourses)
	faculty.GET("/courses/:id/students", s.roster)
	faculty.POST("/courses/:id/students", s.enroll)
	faculty.DELETE("/courses/:id/students/:sid", s.unenroll)
	faculty.POST("/attendance", s.markAttendance)
	faculty.PUT("/attendance/:rid", s.updateAttendance)

	api.GET("/dashboard/admin", s.adminDashboard, authed, requireRole(models.RoleAdmin))
	api.GET("/courses", s.courses, authed)
	api.GET("/reports/course/:id", s.report, authed, requireRole(models.RoleFaculty, models.RoleAdmin))
}

func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header.Get(echo.HeaderAuthorization)
		tok, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || tok == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
		}
		uid, gen, err := parseToken(tok, s.opts.Secret)
		if err != nil || gen != s.generation.Load() {
			return errBadCredentials
		}
		id, ok := s.store.userByID(uid)
		if !ok {
			return errBadCredentials
		}
		c.Set(identityKey, id)
		return next(c)
	}
}

func requireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := caller(c)
			for _, r := range roles {
				if id.Role == r {
					return next(c)
				}
			}
			return errForbidden
		}
	}
}

func caller(c echo.Context) *models.Identity {
	id, _ := c.Get(identityKey).(*models.Identity)
	return id
}

func idParam(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid "+name)
	}
	return v, nil
}

func bindValid(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return err
	}
	return c.Validate(v)
}

func (s *Server) login(c echo.Context) error {
	username, password := c.FormValue("username"), c.FormValue("password")
	if username == "" || password == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "username and password are required")
	}
	id, ok := s.store.authenticate(username, password)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect email or password")
	}
	tok, err := generateToken(id.ID, string(id.Role), s.generation.Load(), s.opts.Secret, s.opts.TokenTTL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.TokenResponse{AccessToken: tok, TokenType: "bearer"})
}

func (s *Server) me(c echo.Context) error {
	return c.JSON(http.StatusOK, caller(c))
}

func (s *Server) register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if req.Role == models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Admin accounts cannot be self-registered")
	}
	id, err := s.store.addUser(models.Identity{
		Email:      req.Email,
		FullName:   strings.TrimSpace(req.FullName),
		Role:       req.Role,
		Department: req.Department,
		RollNumber: req.RollNumber,
	}, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, id)
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if tok, ok := s.store.createReset(req.Email); ok {
		s.log.Info(c.Request().Context(), "password reset requested", "email", req.Email, "reset_path", "/api/auth/reset-password/"+tok)
	}
	return c.JSON(http.StatusOK, models.Message{Message: "If the email is registered, a reset link has been sent"})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if err := s.store.resetPassword(c.Param("token"), req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.Message{Message: "Password has been reset"})
}

func (s *Server) studentDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.studentDashboard(caller(c).ID))
}

func (s *Server) studentAttendance(c echo.Context) error {
	cid, err := idParam(c, "course_id")
	if err != nil {
		return err
	}
	recs, err := s.store.studentHistory(caller(c).ID, cid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recs)
}

func (s *Server) facultyCourses(c echo.Context) error {
	id := caller(c)
	return c.JSON(http.StatusOK, s.store.facultyCourses(id.ID, id.Role == models.RoleAdmin))
}

func (s *Server) roster(c echo.Context) error {
	cid, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ss, err := s.store.roster(cid, caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ss)
}

func (s *Server) enroll(c echo.Context) error {
	cid, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req models.EnrollRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	st, err := s.store.enroll(cid, req.Email, caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, st)
}

func (s *Server) unenroll(c echo.Context) error {
	cid, err := idParam(c, "id")
	if err != nil {
		return err
	}
	sid, err := idParam(c, "sid")
	if err != nil {
		return err
	}
	if err := s.store.unenroll(cid, sid, caller(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) markAttendance(c echo.Context) error {
	var req models.SessionAttendance
	if err := bindValid(c, &req); err != nil {
		return err
	}
	recs, err := s.store.mark(req, caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recs)
}

func (s *Server) updateAttendance(c echo.Context) error {
	rid, err := idParam(c, "rid")
	if err != nil {
		return err
	}
	var req models.UpdateAttendance
	if err := bindValid(c, &req); err != nil {
		return err
	}
	rec, err := s.store.updateRecord(rid, req.Status, caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) adminDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.adminDashboard())
}

func (s *Server) courses(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.listCourses())
}

func (s *Server) report(c echo.Context) error {
	cid, err := idParam(c, "id")
	if err != nil {
		return err
	}
	course, rows, err := s.store.reportRows(cid, caller(c))
	if err != nil {
		return err
	}

	switch format := c.QueryParam("format"); format {
	case "", "csv":
		data, err := renderCSV(rows)
		if err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+course.Code+`.csv"`)
		return c.Blob(http.StatusOK, "text/csv", data)
	case "pdf":
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+course.Code+`.pdf"`)
		return c.Blob(http.StatusOK, "application/pdf", renderPDF(course, rows))
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unsupported format: "+format)
	}
}
