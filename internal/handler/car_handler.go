package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/IAmShivay/motorcarbackedn/internal/middleware"
	"github.com/IAmShivay/motorcarbackedn/internal/model"
	"github.com/IAmShivay/motorcarbackedn/internal/service"
)

// CarHandler handles listing endpoints.
type CarHandler struct {
	carService service.CarService
}

// NewCarHandler creates a new car handler.
func NewCarHandler(carService service.CarService) *CarHandler {
	return &CarHandler{carService: carService}
}

// Search godoc
// @Summary Search listings with filters, sorting and pagination
// @Tags cars
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (1-100, default 10)"
// @Param sort query string false "newest|oldest|price_low|price_high|year_new|year_old|mileage_low|most_viewed"
// @Param make query string false "Make (partial, case-insensitive)"
// @Param model query string false "Model (partial, case-insensitive)"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param minYear query int false "Minimum year"
// @Param maxYear query int false "Maximum year"
// @Param fuelType query string false "Fuel type"
// @Param transmission query string false "Transmission"
// @Param bodyType query string false "Body type"
// @Param city query string false "City (partial, case-insensitive)"
// @Param state query string false "State (partial, case-insensitive)"
// @Param status query string false "Status (default available)"
// @Success 200 {object} service.SearchResult
// @Router /cars [get]
func (h *CarHandler) Search(c echo.Context) error {
	params := service.SearchParams{
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
		Sort:         c.QueryParam("sort"),
		Make:         c.QueryParam("make"),
		Model:        c.QueryParam("model"),
		MinPrice:     queryFloatPtr(c, "minPrice"),
		MaxPrice:     queryFloatPtr(c, "maxPrice"),
		MinYear:      queryIntPtr(c, "minYear"),
		MaxYear:      queryIntPtr(c, "maxYear"),
		FuelType:     c.QueryParam("fuelType"),
		Transmission: c.QueryParam("transmission"),
		BodyType:     c.QueryParam("bodyType"),
		City:         c.QueryParam("city"),
		State:        c.QueryParam("state"),
		Status:       c.QueryParam("status"),
	}

	result, err := h.carService.Search(c.Request().Context(), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Stats godoc
// @Summary Aggregate statistics over available listings
// @Tags cars
// @Produce json
// @Success 200 {object} model.CarStats
// @Router /cars/stats [get]
func (h *CarHandler) Stats(c echo.Context) error {
	stats, err := h.carService.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// MyListings godoc
// @Summary List the authenticated user's own listings
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Car
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /cars/my-listings [get]
func (h *CarHandler) MyListings(c echo.Context) error {
	user, ok := middleware.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	cars, err := h.carService.ListMine(c.Request().Context(), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cars)
}

// GetByID godoc
// @Summary Get a listing by id (counts a view)
// @Tags cars
// @Produce json
// @Param id path string true "Listing id"
// @Success 200 {object} model.Car
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /cars/{id} [get]
func (h *CarHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	car, err := h.carService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, car)
}

// AdminGetByID godoc
// @Summary Get a listing by id including soft-deleted records
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing id"
// @Success 200 {object} model.Car
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /admin/cars/{id} [get]
func (h *CarHandler) AdminGetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	car, err := h.carService.GetByIDIncludeInactive(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, car)
}

// Create godoc
// @Summary Create a listing
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.Car true "Listing payload"
// @Success 201 {object} model.Car
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /cars [post]
func (h *CarHandler) Create(c echo.Context) error {
	user, ok := middleware.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var car model.Car
	if err := c.Bind(&car); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	created, err := h.carService.Create(c.Request().Context(), user, &car)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Update a listing (partial merge)
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing id"
// @Param request body service.CarPatch true "Fields to update"
// @Success 200 {object} model.Car
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /cars/{id} [put]
func (h *CarHandler) Update(c echo.Context) error {
	user, ok := middleware.Identity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	var patch service.CarPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := h.carService.Update(c.Request().Context(), id, user, &patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Soft-delete a listing
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /cars/{id} [delete]
func (h *CarHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	if err := h.carService.SoftDelete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "listing deleted successfully",
	})
}

func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}

func queryIntPtr(c echo.Context, name string) *int {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryFloatPtr(c echo.Context, name string) *float64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
