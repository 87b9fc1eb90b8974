package http

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"marketplace/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

//go:embed openapi.json
var openapiDocument []byte

var registerDocOnce sync.Once

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// requestValidator rejects requests that do not match the document with a
// validation_error. Routes the document does not describe pass through.
func (s *Server) requestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				if err == routers.ErrPathNotFound || err == routers.ErrMethodNotAllowed {
					return next(c)
				}
				return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("route", err))
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("request", err))
			}
			return next(c)
		}
	}, nil
}

// registerSwagger serves the embedded document and Swagger UI under /swagger.
func registerSwagger(e *echo.Echo) {
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, &swag.Spec{
			InfoInstanceName: swag.Name,
			SwaggerTemplate:  string(openapiDocument),
		})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
