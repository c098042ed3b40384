package provider

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/doctorwapp/provider-api/internal/platform/apierror"
	"github.com/doctorwapp/provider-api/internal/platform/middleware"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// filtersMaxAge is how long clients may cache the filter dropdown values.
const filtersMaxAge = 5 * time.Minute

// RegisterRoutes mounts the provider endpoints on g (normally /api/providers).
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/filters", h.Filters, middleware.CacheControl(filtersMaxAge))
	g.GET("/:npi", h.Get)
}

// bindSearchParams reads the search query string. Malformed numbers or
// booleans fail with an *echo.BindingError naming the parameter.
func bindSearchParams(c echo.Context) (SearchParams, error) {
	var p SearchParams
	b := echo.QueryParamsBinder(c)

	optFloat := func(name string) *float64 {
		if c.QueryParam(name) == "" {
			return nil
		}
		v := new(float64)
		b.Float64(name, v)
		return v
	}
	optInt := func(name string) *int {
		if c.QueryParam(name) == "" {
			return nil
		}
		v := new(int)
		b.Int(name, v)
		return v
	}

	b.String("query", &p.Query).
		String("state", &p.State).
		String("specialty", &p.Specialty).
		String("provider_type", &p.ProviderType).
		String("hcpcsCode", &p.HCPCSCode).
		Bool("has_medicare", &p.HasMedicare).
		Int("page", &p.Page).
		Int("limit", &p.Limit)

	p.MinServiceCount = optFloat("minServiceCount")
	p.MaxServiceCount = optFloat("maxServiceCount")
	p.MinPaymentAmount = optFloat("minPaymentAmount")
	p.MaxPaymentAmount = optFloat("maxPaymentAmount")
	p.ServiceYear = optInt("serviceYear")

	return p, b.BindError()
}

func (h *Handler) Search(c echo.Context) error {
	params, err := bindSearchParams(c)
	if err != nil {
		return err
	}

	page, err := h.svc.Search(c.Request().Context(), params)
	if err != nil {
		if errors.Is(err, ErrQueryTimeout) {
			rid, _ := c.Get("request_id").(string)
			h.logger.Warn().
				Str("request_id", rid).
				Strs("filters", params.Applied()).
				Msg("complex provider search timed out")
			return apierror.Timeout(apierror.MsgTimeout)
		}
		return apierror.Internal(err)
	}
	return c.JSON(http.StatusOK, NewSearchResponse(page))
}

func (h *Handler) Filters(c echo.Context) error {
	fv, err := h.svc.ListFilterValues(c.Request().Context())
	if err != nil {
		return apierror.Internal(err)
	}
	return c.JSON(http.StatusOK, fv)
}

func (h *Handler) Get(c echo.Context) error {
	d, err := h.svc.GetByNPI(c.Request().Context(), c.Param("npi"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apierror.NotFound(apierror.MsgNotFound)
		}
		return apierror.Internal(err)
	}
	return c.JSON(http.StatusOK, NewDetail(d))
}
