package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"bakery-backoffice/internal/entity"
	"bakery-backoffice/internal/repository"
	"bakery-backoffice/internal/service"
	"bakery-backoffice/internal/settings"
)

type Handler struct {
	orderService   *service.OrderService
	catalogService *service.CatalogService
	reportService  *service.ReportService
	settingsStore  *settings.Store
}

func NewHandler(orderService *service.OrderService, catalogService *service.CatalogService,
	reportService *service.ReportService, settingsStore *settings.Store) *Handler {
	return &Handler{
		orderService:   orderService,
		catalogService: catalogService,
		reportService:  reportService,
		settingsStore:  settingsStore,
	}
}

// Register attaches every route to the Echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/orders", h.ListOrders)
	e.POST("/orders", h.CreateOrder)
	e.GET("/orders/:id", h.GetOrder)
	e.PUT("/orders/:id", h.UpdateOrder)
	e.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	e.POST("/orders/:id/items", h.AddLineItem)
	e.PUT("/orders/:id/items/:itemID", h.UpdateLineItem)
	e.DELETE("/orders/:id/items/:itemID", h.RemoveLineItem)

	e.GET("/products", h.ListProducts)

	e.GET("/reports", h.GetReport)
	e.GET("/reports/export", h.ExportReport)

	e.GET("/settings", h.GetSettings)
	e.PUT("/settings", h.UpdateSettings)
}

func (h *Handler) ListOrders(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.orderService.ListOrders(c.Request().Context(), service.ListQuery{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, result)
}

func (h *Handler) CreateOrder(c echo.Context) error {
	order := entity.Order{}
	if err := c.Bind(&order); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if order.CustomerFirstName == "" || order.CustomerLastName == "" {
		return c.JSON(400, map[string]string{"error": "customer first and last name are required"})
	}

	idempotentKey := c.Request().Header.Get("Idempotent-Key")

	createdOrder, err := h.orderService.CreateOrder(c.Request().Context(), &order, idempotentKey)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, createdOrder)
}

// orderResponse pairs the stored row with the total recomputed from its
// line items; the stored total is only trusted when items are missing.
type orderResponse struct {
	*entity.Order
	EffectiveTotal float64 `json:"effective_total"`
}

func (h *Handler) GetOrder(c echo.Context) error {
	order, err := h.orderService.GetOrder(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(404, map[string]string{"error": "order not found"})
	}
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, orderResponse{Order: order, EffectiveTotal: service.EffectiveTotal(order)})
}

func (h *Handler) UpdateOrder(c echo.Context) error {
	updates := entity.Order{}
	if err := c.Bind(&updates); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if updates.CustomerFirstName == "" || updates.CustomerLastName == "" {
		return c.JSON(400, map[string]string{"error": "customer first and last name are required"})
	}

	order, err := h.orderService.UpdateOrder(c.Request().Context(), c.Param("id"), &updates)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(404, map[string]string{"error": "order not found"})
	}
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, order)
}

func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	body := struct {
		Status string `json:"status"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if !entity.ValidStatus(body.Status) {
		return c.JSON(400, map[string]string{"error": "invalid status"})
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), c.Param("id"), body.Status)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(404, map[string]string{"error": "order not found"})
	}
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, order)
}

func (h *Handler) AddLineItem(c echo.Context) error {
	item := entity.LineItem{}
	if err := c.Bind(&item); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if item.Type == "" {
		return c.JSON(400, map[string]string{"error": "line item type is required"})
	}

	order, err := h.orderService.AddLineItem(c.Request().Context(), c.Param("id"), item)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(404, map[string]string{"error": "order not found"})
	}
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, order)
}

func (h *Handler) UpdateLineItem(c echo.Context) error {
	itemID, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid item ID"})
	}

	item := entity.LineItem{}
	if err := c.Bind(&item); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	if item.Type == "" {
		return c.JSON(400, map[string]string{"error": "line item type is required"})
	}

	order, err := h.orderService.UpdateLineItem(c.Request().Context(), c.Param("id"), itemID, item)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(404, map[string]string{"error": "order or line item not found"})
	}
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, order)
}

func (h *Handler) RemoveLineItem(c echo.Context) error {
	itemID, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid item ID"})
	}

	order, err := h.orderService.RemoveLineItem(c.Request().Context(), c.Param("id"), itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(404, map[string]string{"error": "order or line item not found"})
	}
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, order)
}

func (h *Handler) ListProducts(c echo.Context) error {
	result, err := h.catalogService.ListProducts(c.Request().Context(),
		c.QueryParam("search"), c.QueryParam("category"), c.QueryParam("sort"))
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, result)
}

func (h *Handler) GetReport(c echo.Context) error {
	report, err := h.reportService.BuildReport(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, report)
}

func (h *Handler) ExportReport(c echo.Context) error {
	filename, csv, err := h.reportService.ExportCSV(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(200, "text/csv", []byte(csv))
}

func (h *Handler) GetSettings(c echo.Context) error {
	current, err := h.settingsStore.Load(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, current)
}

func (h *Handler) UpdateSettings(c echo.Context) error {
	update := settings.Update{}
	if err := c.Bind(&update); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	ctx := c.Request().Context()
	current, err := h.settingsStore.Load(ctx)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	current.Apply(update)
	if err := h.settingsStore.Save(ctx, current); err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, current)
}
