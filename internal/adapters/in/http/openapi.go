package http

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// DocName is the swag instance the API document is registered under.
const DocName = "dispatch"

//go:embed openapi.yaml
var openapiYAML []byte

type apiDoc string

func (d apiDoc) ReadDoc() string { return string(d) }

// loadAPI parses the embedded document once and registers it with swag,
// which rejects a second registration under the same name.
var loadAPI = sync.OnceValues(func() (routers.Router, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("route openapi document: %w", err)
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}
	swag.Register(DocName, apiDoc(raw))
	return router, nil
})

var swaggerUI = echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(DocName))

// validate rejects requests that do not match the API document. Requests
// the document does not describe are left to the echo router.
func (s *Server) validate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		route, params, err := s.router.FindRoute(req)
		if err != nil {
			return next(c)
		}

		err = openapi3filter.ValidateRequest(req.Context(), &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: params,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc:  openapi3filter.NoopAuthenticationFunc,
				SkipSettingDefaults: true,
			},
		})
		if err != nil {
			s.log.Debug("request rejected", "method", req.Method, "path", req.URL.Path, "error", err)
			return badRequest(c, err.Error())
		}
		return next(c)
	}
}
