package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/campus-market/marketplace-service/internal/domain"
	apperrors "github.com/campus-market/marketplace-service/pkg/util"
)

// staticVerifier resolves any token to a fixed identity.
type staticVerifier struct {
	identity domain.Identity
	err      error
}

func (v *staticVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	if v.err != nil {
		return nil, v.err
	}
	identity := v.identity
	return &identity, nil
}

type GateSuite struct {
	suite.Suite
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) newApp(gate *Gate) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) (err error) {
		defer func() {
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(fiber.Map{"error": domainErr.Code})
				err = nil
			}
		}()
		return c.Next()
	})
	app.All("/protected", gate.Handle, func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		identity, ok := IdentityFromContext(c)
		if !ok {
			return errors.New("identity missing after gate")
		}
		return c.JSON(fiber.Map{"uid": identity.SubjectID})
	})
	return app
}

func (s *GateSuite) request(app *fiber.App, method, authHeader string) *http.Response {
	req := httptest.NewRequest(method, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	s.Require().NoError(err)
	return resp
}

func (s *GateSuite) TestMissingToken() {
	verifier := &staticVerifier{identity: domain.Identity{SubjectID: "u1", Email: "a@email.iimcal.ac.in"}}
	gate := NewGate(verifier, []string{"@email.iimcal.ac.in"}, true, zap.NewNop())
	app := s.newApp(gate)

	s.Run("absent header", func() {
		resp := s.request(app, http.MethodGet, "")
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("not bearer", func() {
		resp := s.request(app, http.MethodGet, "Basic abc")
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("empty token", func() {
		resp := s.request(app, http.MethodGet, "Bearer ")
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})
}

func (s *GateSuite) TestInvalidToken() {
	verifier := &staticVerifier{err: errors.New("bad signature")}
	gate := NewGate(verifier, []string{"@email.iimcal.ac.in"}, true, zap.NewNop())
	app := s.newApp(gate)

	resp := s.request(app, http.MethodGet, "Bearer whatever")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *GateSuite) TestDomainGateProductionAsymmetry() {
	verifier := &staticVerifier{identity: domain.Identity{SubjectID: "u1", Email: "outsider@gmail.com"}}

	s.Run("rejected in production", func() {
		gate := NewGate(verifier, []string{"@email.iimcal.ac.in"}, true, zap.NewNop())
		resp := s.request(s.newApp(gate), http.MethodGet, "Bearer token")
		s.Equal(http.StatusForbidden, resp.StatusCode)
	})

	s.Run("bypassed outside production", func() {
		gate := NewGate(verifier, []string{"@email.iimcal.ac.in"}, false, zap.NewNop())
		resp := s.request(s.newApp(gate), http.MethodGet, "Bearer token")
		s.Equal(http.StatusOK, resp.StatusCode)
	})
}

func (s *GateSuite) TestAllowedDomainSuffixList() {
	gate := NewGate(
		&staticVerifier{identity: domain.Identity{SubjectID: "u1", Email: "alice@alum.iimcal.ac.in"}},
		[]string{"@email.iimcal.ac.in", "@alum.iimcal.ac.in"},
		true,
		zap.NewNop(),
	)
	resp := s.request(s.newApp(gate), http.MethodGet, "Bearer token")
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *GateSuite) TestOptionsBypassesAuthentication() {
	verifier := &staticVerifier{err: errors.New("should not be called")}
	gate := NewGate(verifier, []string{"@email.iimcal.ac.in"}, true, zap.NewNop())
	app := s.newApp(gate)

	resp := s.request(app, http.MethodOptions, "")
	s.NotEqual(http.StatusUnauthorized, resp.StatusCode)
	s.NotEqual(http.StatusForbidden, resp.StatusCode)
}

func (s *GateSuite) TestIdentityStoredInLocals() {
	verifier := &staticVerifier{identity: domain.Identity{SubjectID: "u42", Email: "x@email.iimcal.ac.in"}}
	gate := NewGate(verifier, []string{"@email.iimcal.ac.in"}, true, zap.NewNop())

	resp := s.request(s.newApp(gate), http.MethodGet, "Bearer token")
	s.Equal(http.StatusOK, resp.StatusCode)
}
