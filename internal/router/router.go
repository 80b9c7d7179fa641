package router // router wires HTTP routes to handlers and declares their gate attributes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minafarid/academic-records-api/internal/handler"
	"github.com/minafarid/academic-records-api/internal/middleware"
	"github.com/minafarid/academic-records-api/internal/repository"
)

// Register mounts every route and records its attributes in the metadata
// registry the gates consult. The gates themselves are installed globally in
// main, ahead of any handler, so authentication-then-authorization ordering
// is a property of the chain, not of individual registrations. A route added
// here without a metadata declaration is authenticated-only by default;
// nothing becomes public by omission.
func Register(e *echo.Echo, meta *middleware.MetaRegistry,
	a *handler.AuthHandler, p *handler.ProfileHandler,
	rec *handler.RecordsHandler, cat *handler.CatalogHandler,
	cacheMW echo.MiddlewareFunc) {

	// Health check for load balancers.
	e.GET("/healthz", handler.Health)
	meta.Public(http.MethodGet, "/healthz")

	// Session lifecycle. Sign-in is public; sign-out needs a valid access
	// token but no particular role; refresh is gated by the refresh secret.
	e.POST("/v1/auth/signin", a.SignIn)
	meta.Public(http.MethodPost, "/v1/auth/signin")
	e.GET("/v1/auth/signout/:id", a.SignOut)
	meta.Require(http.MethodGet, "/v1/auth/signout/:id")
	e.GET("/v1/auth/refresh", a.Refresh)
	meta.RefreshRoute(http.MethodGet, "/v1/auth/refresh")

	// Student profiles. Registration is the public path that creates the
	// identity record.
	e.POST("/v1/profiles", p.Register)
	meta.Public(http.MethodPost, "/v1/profiles")
	e.GET("/v1/profiles", p.List)
	meta.Require(http.MethodGet, "/v1/profiles", repository.RoleAdmin, repository.RoleFaculty)
	e.GET("/v1/profiles/:id", p.Get)
	meta.Require(http.MethodGet, "/v1/profiles/:id",
		repository.RoleAdmin, repository.RoleFaculty, repository.RoleStudent)
	e.PUT("/v1/profiles/:id", p.Update)
	meta.Require(http.MethodPut, "/v1/profiles/:id", repository.RoleAdmin)

	// Departments: readable by any authenticated identity, managed by admins.
	e.GET("/v1/departments", rec.ListDepartments)
	meta.Require(http.MethodGet, "/v1/departments")
	e.POST("/v1/departments", rec.CreateDepartment)
	meta.Require(http.MethodPost, "/v1/departments", repository.RoleAdmin)
	e.PUT("/v1/departments/:id", rec.UpdateDepartment)
	meta.Require(http.MethodPut, "/v1/departments/:id", repository.RoleAdmin)
	e.DELETE("/v1/departments/:id", rec.DeleteDepartment)
	meta.Require(http.MethodDelete, "/v1/departments/:id", repository.RoleAdmin)

	// Lecturers: staff directory for admins and faculty.
	e.GET("/v1/lecturers", rec.ListLecturers)
	meta.Require(http.MethodGet, "/v1/lecturers", repository.RoleAdmin, repository.RoleFaculty)
	e.GET("/v1/lecturers/:id", rec.GetLecturer)
	meta.Require(http.MethodGet, "/v1/lecturers/:id", repository.RoleAdmin, repository.RoleFaculty)
	e.POST("/v1/lecturers", rec.CreateLecturer)
	meta.Require(http.MethodPost, "/v1/lecturers", repository.RoleAdmin)
	e.PUT("/v1/lecturers/:id", rec.UpdateLecturer)
	meta.Require(http.MethodPut, "/v1/lecturers/:id", repository.RoleAdmin)
	e.DELETE("/v1/lecturers/:id", rec.DeleteLecturer)
	meta.Require(http.MethodDelete, "/v1/lecturers/:id", repository.RoleAdmin)

	// Courses: students read, faculty and admins manage.
	e.GET("/v1/courses", rec.ListCourses)
	meta.Require(http.MethodGet, "/v1/courses",
		repository.RoleAdmin, repository.RoleFaculty, repository.RoleStudent)
	e.GET("/v1/courses/:id", rec.GetCourse)
	meta.Require(http.MethodGet, "/v1/courses/:id",
		repository.RoleAdmin, repository.RoleFaculty, repository.RoleStudent)
	e.POST("/v1/courses", rec.CreateCourse)
	meta.Require(http.MethodPost, "/v1/courses", repository.RoleAdmin, repository.RoleFaculty)
	e.PUT("/v1/courses/:id", rec.UpdateCourse)
	meta.Require(http.MethodPut, "/v1/courses/:id", repository.RoleAdmin, repository.RoleFaculty)
	e.DELETE("/v1/courses/:id", rec.DeleteCourse)
	meta.Require(http.MethodDelete, "/v1/courses/:id", repository.RoleAdmin, repository.RoleFaculty)

	// Enrollments.
	e.POST("/v1/enrollments", rec.Enroll)
	meta.Require(http.MethodPost, "/v1/enrollments", repository.RoleStudent, repository.RoleAdmin)
	e.GET("/v1/courses/:id/enrollments", rec.CourseEnrollments)
	meta.Require(http.MethodGet, "/v1/courses/:id/enrollments",
		repository.RoleAdmin, repository.RoleFaculty)

	// Public catalog: sanitized browse endpoints, the only cached routes.
	catalog := e.Group("/v1/catalog")
	if cacheMW != nil {
		catalog.Use(cacheMW)
	}
	catalog.GET("/departments", cat.Departments)
	meta.Public(http.MethodGet, "/v1/catalog/departments")
	catalog.GET("/courses", cat.Courses)
	meta.Public(http.MethodGet, "/v1/catalog/courses")
}
