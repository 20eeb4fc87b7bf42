package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/philiph/orglogo/internal/core/domain"
	"github.com/philiph/orglogo/internal/core/ports"
)

// Server is the public HTTP surface of the logo service.
type Server struct {
	app    *fiber.App
	orgs   ports.OrganizationStore
	logos  ports.LogoProvider
	logger *zap.Logger
}

// NewServer creates the API server and mounts all routes.
func NewServer(orgs ports.OrganizationStore, logos ports.LogoProvider, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		orgs:   orgs,
		logos:  logos,
		logger: logger,
	}

	api := s.app.Group("/api")
	api.Get("/orgs", s.handleListOrgs)
	api.Get("/orgs/:id/logo", s.handleOrgLogo)
	api.Get("/orgs/:id/logo/raw", s.handleOrgLogoRaw)

	return s
}

// App exposes the fiber app, for tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the API on the given address until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts the API listener down.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

type listOrgsResponse struct {
	Organizations []domain.Organization `json:"organizations"`
}

func (s *Server) handleListOrgs(c *fiber.Ctx) error {
	orgs, err := s.orgs.ListOrganizations(c.Query("q"))
	if err != nil {
		return s.sendError(c, domain.ServiceError("listing organizations failed"))
	}
	if orgs == nil {
		orgs = []domain.Organization{}
	}
	return c.JSON(listOrgsResponse{Organizations: orgs})
}

// logoResponse carries the embeddable logo. Logo is null when the
// organization has no usable logo; clients must omit the logo then,
// never treat it as an error.
type logoResponse struct {
	Logo *string `json:"logo"`
}

func (s *Server) handleOrgLogo(c *fiber.Ctx) error {
	org, err := s.orgs.GetOrganization(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrgNotFound) {
			return s.sendError(c, domain.OrgNotFoundError(c.Params("id")))
		}
		return s.sendError(c, domain.ServiceError("organization lookup failed"))
	}

	encoded := s.logos.EncodedLogo(c.UserContext(), org.LogoURL)

	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	if encoded.IsZero() {
		return c.JSON(logoResponse{Logo: nil})
	}
	v := string(encoded)
	return c.JSON(logoResponse{Logo: &v})
}

func (s *Server) handleOrgLogoRaw(c *fiber.Ctx) error {
	org, err := s.orgs.GetOrganization(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrgNotFound) {
			return s.sendError(c, domain.OrgNotFoundError(c.Params("id")))
		}
		return s.sendError(c, domain.ServiceError("organization lookup failed"))
	}

	encoded := s.logos.EncodedLogo(c.UserContext(), org.LogoURL)
	if encoded.IsZero() {
		return s.sendError(c, &domain.AppError{
			Code:    domain.ErrCodeOrgNotFound,
			Message: "The organization has no logo",
		})
	}

	data, contentType, err := encoded.Decode()
	if err != nil {
		s.logger.Error("decoding cached logo failed",
			zap.String("org_id", org.ID),
			zap.Error(err),
		)
		return s.sendError(c, domain.ServiceError("logo decoding failed"))
	}

	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	c.Context().SetContentType(contentType)
	return c.Status(fiber.StatusOK).Send(data)
}

func (s *Server) sendError(c *fiber.Ctx, appErr *domain.AppError) error {
	return c.Status(appErr.Code.HTTPStatus()).JSON(domain.NewJSONErrorResponse(appErr))
}
